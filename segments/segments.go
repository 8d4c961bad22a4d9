package segments

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
	"voyara/share"
	"voyara/utils"
)

type segmentRequest struct {
	Type               string         `json:"type"`
	Title              string         `json:"title"`
	DayNumber          int            `json:"dayNumber"`
	SortOrder          int            `json:"sortOrder"`
	StartTime          string         `json:"startTime"`
	EndTime            string         `json:"endTime"`
	Cost               float64        `json:"cost"`
	Currency           string         `json:"currency"`
	Quantity           int            `json:"quantity"`
	PricePerUnit       float64        `json:"pricePerUnit"`
	ConfirmationNumber string         `json:"confirmationNumber"`
	Notes              string         `json:"notes"`
	JourneyID          string         `json:"journeyId"`
	PropertyGroupID    string         `json:"propertyGroupId"`
	ChoiceGroupID      string         `json:"choiceGroupId"`
	Meta               map[string]any `json:"meta"`
	Photos             []string       `json:"photos"`
}

func validType(t string) bool {
	switch t {
	case models.SegmentFlight, models.SegmentCharter, models.SegmentCharterFlight,
		models.SegmentHotel, models.SegmentTransport, models.SegmentRestaurant,
		models.SegmentActivity, models.SegmentNote:
		return true
	}
	return false
}

func (req *segmentRequest) validate() string {
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if !validType(req.Type) {
		return "unknown segment type"
	}
	if req.DayNumber < 1 {
		return "dayNumber must be 1 or greater"
	}
	if req.Quantity < 0 {
		return "quantity must not be negative"
	}
	return ""
}

func CreateSegment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	versionID := ps.ByName("versionid")

	version, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"versionid": versionID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "version not found")
		return
	}

	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now()
	seg := models.TripSegment{
		SegmentID:          utils.GenerateID("seg"),
		VersionID:          versionID,
		TripID:             version.TripID,
		OrgID:              orgID,
		Type:               req.Type,
		Title:              strings.TrimSpace(req.Title),
		DayNumber:          req.DayNumber,
		SortOrder:          req.SortOrder,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Cost:               req.Cost,
		Currency:           strings.ToUpper(strings.TrimSpace(req.Currency)),
		Quantity:           req.Quantity,
		PricePerUnit:       req.PricePerUnit,
		ConfirmationNumber: req.ConfirmationNumber,
		Notes:              req.Notes,
		JourneyID:          req.JourneyID,
		PropertyGroupID:    req.PropertyGroupID,
		ChoiceGroupID:      req.ChoiceGroupID,
		Meta:               models.ParseSegmentMeta(req.Type, req.Meta),
		Photos:             req.Photos,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := db.SegmentsCollection.InsertOne(ctx, seg); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create segment", err)
		return
	}

	share.InvalidateTripCache(version.TripID)
	utils.RespondWithJSON(w, http.StatusCreated, seg)
}

func GetSegments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	list, err := utils.FindAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"versionId": ps.ByName("versionid"), "orgId": orgID},
		options.Find().SetSort(bson.D{{Key: "dayNumber", Value: 1}, {Key: "sortOrder", Value: 1}}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not list segments", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetSegment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": ps.ByName("segmentid"), "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "segment not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, seg)
}

func UpdateSegment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	segmentID := ps.ByName("segmentid")

	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": segmentID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "segment not found")
		return
	}

	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	update := bson.M{"$set": bson.M{
		"type":               req.Type,
		"title":              strings.TrimSpace(req.Title),
		"dayNumber":          req.DayNumber,
		"sortOrder":          req.SortOrder,
		"startTime":          req.StartTime,
		"endTime":            req.EndTime,
		"cost":               req.Cost,
		"currency":           strings.ToUpper(strings.TrimSpace(req.Currency)),
		"quantity":           req.Quantity,
		"pricePerUnit":       req.PricePerUnit,
		"confirmationNumber": req.ConfirmationNumber,
		"notes":              req.Notes,
		"journeyId":          req.JourneyID,
		"propertyGroupId":    req.PropertyGroupID,
		"choiceGroupId":      req.ChoiceGroupID,
		"meta":               models.ParseSegmentMeta(req.Type, req.Meta),
		"photos":             req.Photos,
		"updatedAt":          time.Now(),
	}}
	if _, err := db.SegmentsCollection.UpdateOne(ctx,
		bson.M{"segmentid": segmentID, "orgId": orgID}, update); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update segment", err)
		return
	}

	share.InvalidateTripCache(seg.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func DeleteSegment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	segmentID := ps.ByName("segmentid")

	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": segmentID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "segment not found")
		return
	}

	if _, err := db.VariantsCollection.DeleteMany(ctx,
		bson.M{"segmentId": segmentID, "orgId": orgID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete variants", err)
		return
	}
	if _, err := db.SegmentsCollection.DeleteOne(ctx,
		bson.M{"segmentid": segmentID, "orgId": orgID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete segment", err)
		return
	}

	share.InvalidateTripCache(seg.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type reorderRequest struct {
	Order []struct {
		SegmentID string `json:"segmentId"`
		DayNumber int    `json:"dayNumber"`
		SortOrder int    `json:"sortOrder"`
	} `json:"order"`
}

// ReorderSegments applies a drag-and-drop result in one request: each
// entry carries the segment's new day and position within it.
func ReorderSegments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	versionID := ps.ByName("versionid")

	version, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"versionid": versionID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "version not found")
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Order) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, entry := range req.Order {
		if entry.DayNumber < 1 {
			utils.RespondWithError(w, http.StatusBadRequest, "dayNumber must be 1 or greater")
			return
		}
		if _, err := db.SegmentsCollection.UpdateOne(ctx,
			bson.M{"segmentid": entry.SegmentID, "versionId": versionID, "orgId": orgID},
			bson.M{"$set": bson.M{
				"dayNumber": entry.DayNumber,
				"sortOrder": entry.SortOrder,
				"updatedAt": time.Now(),
			}}); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not reorder segments", err)
			return
		}
	}

	share.InvalidateTripCache(version.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"reordered": true})
}

// SelectChoice marks one option of a choice group as the client's pick.
// Exactly one member per group holds the flag, so siblings are cleared
// first.
func SelectChoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	segmentID := ps.ByName("segmentid")

	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": segmentID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "segment not found")
		return
	}
	if seg.ChoiceGroupID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "segment is not part of a choice group")
		return
	}

	if _, err := db.SegmentsCollection.UpdateMany(ctx,
		bson.M{"versionId": seg.VersionID, "choiceGroupId": seg.ChoiceGroupID, "orgId": orgID},
		bson.M{"$set": bson.M{"isChoiceSelected": false}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not clear choice group", err)
		return
	}
	if _, err := db.SegmentsCollection.UpdateOne(ctx,
		bson.M{"segmentid": segmentID, "orgId": orgID},
		bson.M{"$set": bson.M{"isChoiceSelected": true, "updatedAt": time.Now()}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not select option", err)
		return
	}

	share.InvalidateTripCache(seg.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"selected": true})
}

// ClearChoice reopens a choice group.
func ClearChoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	segmentID := ps.ByName("segmentid")

	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": segmentID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "segment not found")
		return
	}
	if seg.ChoiceGroupID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "segment is not part of a choice group")
		return
	}

	if _, err := db.SegmentsCollection.UpdateMany(ctx,
		bson.M{"versionId": seg.VersionID, "choiceGroupId": seg.ChoiceGroupID, "orgId": orgID},
		bson.M{"$set": bson.M{"isChoiceSelected": false}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not clear choice group", err)
		return
	}

	share.InvalidateTripCache(seg.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}
