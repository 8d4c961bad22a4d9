package advisors

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyara/db"
	"voyara/models"
	"voyara/utils"
)

// GetProfile returns the advisor profile used on document covers and
// contact blocks.
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := utils.GetUserIDFromRequest(r)
	orgID, _ := utils.GetOrgIDFromRequest(r)

	var advisor models.Advisor
	err := db.AdvisorsCollection.FindOne(ctx, bson.M{"advisorid": userID, "orgId": orgID}).Decode(&advisor)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "advisor profile not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, advisor)
}

type profileUpdate struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	OrgName  string `json:"orgName"`
	LogoPath string `json:"logoPath"`
	Website  string `json:"website"`
}

// UpdateProfile upserts the advisor's public profile and org branding.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, _ := utils.GetUserIDFromRequest(r)
	orgID, _ := utils.GetOrgIDFromRequest(r)

	var req profileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}

	update := bson.M{"$set": bson.M{
		"name":      req.Name,
		"title":     req.Title,
		"email":     req.Email,
		"phone":     req.Phone,
		"orgName":   req.OrgName,
		"logoPath":  req.LogoPath,
		"website":   req.Website,
		"orgId":     orgID,
		"updatedAt": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := db.AdvisorsCollection.UpdateOne(ctx, bson.M{"advisorid": userID, "orgId": orgID}, update, opts); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update profile", err)
		return
	}

	var advisor models.Advisor
	if err := db.AdvisorsCollection.FindOne(ctx, bson.M{"advisorid": userID, "orgId": orgID}).Decode(&advisor); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load profile", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, advisor)
}

// ForTrip loads the advisor block for a trip's exports, falling back to
// any profile in the org when the owning advisor has none.
func ForTrip(ctx context.Context, orgID, advisorID string) *models.Advisor {
	var advisor models.Advisor
	err := db.AdvisorsCollection.FindOne(ctx, bson.M{"advisorid": advisorID, "orgId": orgID}).Decode(&advisor)
	if err == nil {
		return &advisor
	}
	err = db.AdvisorsCollection.FindOne(ctx, bson.M{"orgId": orgID}).Decode(&advisor)
	if err == nil {
		return &advisor
	}
	return nil
}
