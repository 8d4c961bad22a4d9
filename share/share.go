// Package share issues and serves client-facing itinerary links. A link
// is an unguessable token; whoever holds it can view the rendered
// itinerary, its calendar file and its document. Links minted with
// allowApproval can additionally accept the itinerary on the client's
// behalf.
package share

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyara/db"
	"voyara/models"
	"voyara/rdx"
	"voyara/utils"
)

const viewCacheTTL = 10 * time.Minute

func viewCacheKey(token string) string { return "share:view:" + token }
func tokensKey(tripID string) string   { return "share:tokens:" + tripID }

// BaseURL is where public share links are served from, for QR codes and
// the links advisors copy out of the UI.
func BaseURL() string {
	if u := os.Getenv("SHARE_BASE_URL"); u != "" {
		return strings.TrimRight(u, "/")
	}
	return "http://localhost:8080"
}

func LinkURL(token string) string {
	return BaseURL() + "/s/" + token
}

type shareRequest struct {
	VersionID     string `json:"versionId"`
	ExpiresInDays int    `json:"expiresInDays"`
	AllowApproval bool   `json:"allowApproval"`
}

func CreateShare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	userID, _ := utils.GetUserIDFromRequest(r)
	tripID := ps.ByName("tripid")

	count, err := db.TripsCollection.CountDocuments(ctx, bson.M{"tripid": tripID, "orgId": orgID})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "trip not found")
		return
	}

	var req shareRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.VersionID != "" {
		n, err := db.VersionsCollection.CountDocuments(ctx,
			bson.M{"versionid": req.VersionID, "tripId": tripID, "orgId": orgID})
		if err != nil || n == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "unknown version")
			return
		}
	}

	link := models.ShareLink{
		Token:         utils.GenerateRandomString(24),
		OrgID:         orgID,
		TripID:        tripID,
		VersionID:     req.VersionID,
		AllowApproval: req.AllowApproval,
		CreatedBy:     userID,
		CreatedAt:     time.Now(),
	}
	if req.ExpiresInDays > 0 {
		exp := link.CreatedAt.AddDate(0, 0, req.ExpiresInDays)
		link.ExpiresAt = &exp
	}
	if _, err := db.SharesCollection.InsertOne(ctx, link); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create share link", err)
		return
	}

	if err := rdx.RdxSAdd(tokensKey(tripID), link.Token); err != nil {
		log.Printf("[Share] token index add failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"share": link,
		"url":   LinkURL(link.Token),
	})
}

func GetShares(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	list, err := utils.FindAndDecode[models.ShareLink](ctx, db.SharesCollection,
		bson.M{"tripId": ps.ByName("tripid"), "orgId": orgID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not list share links", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func RevokeShare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	token := ps.ByName("token")

	res, err := db.SharesCollection.UpdateOne(ctx,
		bson.M{"token": token, "orgId": orgID},
		bson.M{"$set": bson.M{"revoked": true}})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not revoke share link", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "share link not found")
		return
	}

	if err := rdx.RdxDel(viewCacheKey(token)); err != nil {
		log.Printf("[Share] cache drop failed: %v", err)
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"revoked": true})
}

// InvalidateTripCache drops every cached share view of a trip. Called on
// any mutation that changes what a client would see.
func InvalidateTripCache(tripID string) {
	tokens, err := rdx.RdxSMembers(tokensKey(tripID))
	if err != nil || len(tokens) == 0 {
		return
	}
	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = viewCacheKey(t)
	}
	if err := rdx.RdxDel(keys...); err != nil {
		log.Printf("[Share] cache invalidation failed for trip %s: %v", tripID, err)
	}
}
