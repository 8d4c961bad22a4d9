package trips

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
	"voyara/mq"
	"voyara/search"
	"voyara/share"
	"voyara/utils"
)

type tripRequest struct {
	Title         string   `json:"title"`
	ClientID      string   `json:"clientId"`
	Destinations  []string `json:"destinations"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	Currency      string   `json:"currency"`
	Budget        float64  `json:"budget"`
	Companions    []string `json:"companions"`
	CoverPhotoURL string   `json:"coverPhotoUrl"`
}

func (req *tripRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	if req.ClientID == "" {
		return "clientId is required"
	}
	if req.StartDate != "" {
		if _, err := utils.ParseDate(req.StartDate); err != nil {
			return "startDate must be YYYY-MM-DD"
		}
	}
	if req.EndDate != "" {
		end, err := utils.ParseDate(req.EndDate)
		if err != nil {
			return "endDate must be YYYY-MM-DD"
		}
		if req.StartDate != "" {
			start, _ := utils.ParseDate(req.StartDate)
			if end.Before(start) {
				return "endDate must not be before startDate"
			}
		}
	}
	return ""
}

func CreateTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	userID, _ := utils.GetUserIDFromRequest(r)

	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	count, err := utils.CountDocs(ctx, db.ClientsCollection, bson.M{"clientid": req.ClientID, "orgId": orgID})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "unknown client")
		return
	}

	now := time.Now()
	trip := models.Trip{
		TripID:        utils.GenerateID("trp"),
		OrgID:         orgID,
		ClientID:      req.ClientID,
		AdvisorID:     userID,
		Title:         req.Title,
		Destinations:  req.Destinations,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Currency:      strings.ToUpper(strings.TrimSpace(req.Currency)),
		Budget:        req.Budget,
		Companions:    req.Companions,
		CoverPhotoURL: req.CoverPhotoURL,
		Status:        "planning",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := db.TripsCollection.InsertOne(ctx, trip); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create trip", err)
		return
	}

	// every trip starts with one primary draft
	version := models.TripVersion{
		VersionID:   utils.GenerateID("ver"),
		TripID:      trip.TripID,
		OrgID:       orgID,
		Name:        "Version 1",
		IsPrimary:   true,
		ShowPricing: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := db.VersionsCollection.InsertOne(ctx, version); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create initial version", err)
		return
	}

	search.IndexEntity(orgID, "trip", trip.TripID, trip.Title+" "+strings.Join(trip.Destinations, " "))
	mq.Emit(mq.TripCreated, mq.Message{OrgID: orgID, TripID: trip.TripID, Ref: trip.TripID})

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"trip": trip, "version": version})
}

func GetTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	page := utils.ParsePagination(r, 25, 100)

	filter := bson.M{"orgId": orgID}
	if clientID := r.URL.Query().Get("clientId"); clientID != "" {
		filter["clientId"] = clientID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	} else {
		filter["status"] = bson.M{"$ne": "archived"}
	}

	opts := options.Find().
		SetSort(bson.M{"updatedAt": -1}).
		SetSkip(int64(page.Skip)).
		SetLimit(int64(page.Limit))
	list, err := utils.FindAndDecode[models.Trip](ctx, db.TripsCollection, filter, opts)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not list trips", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)

	trip, err := utils.FindOneAndDecode[models.Trip](ctx, db.TripsCollection,
		bson.M{"tripid": ps.ByName("tripid"), "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "trip not found")
		return
	}

	versions, err := utils.FindAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"tripId": trip.TripID, "orgId": orgID},
		options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load versions", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"trip": trip, "versions": versions})
}

func UpdateTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	tripID := ps.ByName("tripid")

	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	update := bson.M{"$set": bson.M{
		"title":         req.Title,
		"clientId":      req.ClientID,
		"destinations":  req.Destinations,
		"startDate":     req.StartDate,
		"endDate":       req.EndDate,
		"currency":      strings.ToUpper(strings.TrimSpace(req.Currency)),
		"budget":        req.Budget,
		"companions":    req.Companions,
		"coverPhotoUrl": req.CoverPhotoURL,
		"updatedAt":     time.Now(),
	}}
	res, err := db.TripsCollection.UpdateOne(ctx, bson.M{"tripid": tripID, "orgId": orgID}, update)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update trip", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "trip not found")
		return
	}

	search.IndexEntity(orgID, "trip", tripID, req.Title+" "+strings.Join(req.Destinations, " "))
	share.InvalidateTripCache(tripID)
	mq.Emit(mq.TripUpdated, mq.Message{OrgID: orgID, TripID: tripID, Ref: tripID})
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// ArchiveTrip soft-deletes. Documents and share links keep resolving.
func ArchiveTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	tripID := ps.ByName("tripid")

	res, err := db.TripsCollection.UpdateOne(ctx,
		bson.M{"tripid": tripID, "orgId": orgID},
		bson.M{"$set": bson.M{"status": "archived", "updatedAt": time.Now()}})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not archive trip", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "trip not found")
		return
	}

	share.InvalidateTripCache(tripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"archived": true})
}

// DuplicateTrip deep-copies the trip with all versions, segments and
// variants. Confirmation numbers never survive the copy and the new trip
// starts unapproved.
func DuplicateTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	userID, _ := utils.GetUserIDFromRequest(r)

	src, err := utils.FindOneAndDecode[models.Trip](ctx, db.TripsCollection,
		bson.M{"tripid": ps.ByName("tripid"), "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "trip not found")
		return
	}

	now := time.Now()
	dst := *src
	dst.TripID = utils.GenerateID("trp")
	dst.Title = src.Title + " (Copy)"
	dst.AdvisorID = userID
	dst.ApprovedVersionID = ""
	dst.Status = "planning"
	dst.CreatedAt = now
	dst.UpdatedAt = now
	if _, err := db.TripsCollection.InsertOne(ctx, dst); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not duplicate trip", err)
		return
	}

	versions, err := utils.FindAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"tripId": src.TripID, "orgId": orgID})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load versions", err)
		return
	}
	for i := range versions {
		v := versions[i]
		if err := copyVersionInto(ctx, orgID, &v, dst.TripID, v.Name, v.IsPrimary); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not duplicate version", err)
			return
		}
	}

	search.IndexEntity(orgID, "trip", dst.TripID, dst.Title)
	utils.RespondWithJSON(w, http.StatusCreated, dst)
}
