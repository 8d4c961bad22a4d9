package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyara/db"
	"voyara/models"
	"voyara/search"
	"voyara/utils"
)

type clientRequest struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Phone string   `json:"phone"`
	Notes string   `json:"notes"`
	Tags  []string `json:"tags"`
}

func CreateClient(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}

	client := models.Client{
		ClientID:  utils.GenerateID("cli"),
		OrgID:     orgID,
		Name:      req.Name,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Notes:     req.Notes,
		Tags:      req.Tags,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := db.ClientsCollection.InsertOne(ctx, client); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create client", err)
		return
	}

	search.IndexEntity(orgID, "client", client.ClientID, client.Name)
	utils.RespondWithJSON(w, http.StatusCreated, client)
}

func GetClients(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	page := utils.ParsePagination(r, 25, 100)

	filter := bson.M{"orgId": orgID}
	if !strings.EqualFold(r.URL.Query().Get("includeArchived"), "true") {
		filter["archived"] = bson.M{"$ne": true}
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		filter["name"] = bson.M{"$regex": q, "$options": "i"}
	}

	opts := options.Find().
		SetSort(bson.M{"name": 1}).
		SetSkip(int64(page.Skip)).
		SetLimit(int64(page.Limit))
	list, err := utils.FindAndDecode[models.Client](ctx, db.ClientsCollection, filter, opts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not list clients", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetClient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)

	client, err := utils.FindOneAndDecode[models.Client](ctx, db.ClientsCollection,
		bson.M{"clientid": ps.ByName("clientid"), "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "client not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, client)
}

func UpdateClient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)

	var req clientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}

	update := bson.M{"$set": bson.M{
		"name":      req.Name,
		"email":     strings.TrimSpace(req.Email),
		"phone":     strings.TrimSpace(req.Phone),
		"notes":     req.Notes,
		"tags":      req.Tags,
		"updatedAt": time.Now(),
	}}
	res, err := db.ClientsCollection.UpdateOne(ctx, bson.M{"clientid": ps.ByName("clientid"), "orgId": orgID}, update)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update client", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "client not found")
		return
	}

	search.IndexEntity(orgID, "client", ps.ByName("clientid"), req.Name)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// ArchiveClient soft-deletes: trips keep referencing the client row.
func ArchiveClient(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)

	res, err := db.ClientsCollection.UpdateOne(ctx,
		bson.M{"clientid": ps.ByName("clientid"), "orgId": orgID},
		bson.M{"$set": bson.M{"archived": true, "updatedAt": time.Now()}})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not archive client", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "client not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"archived": true})
}
