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
	"voyara/mq"
	"voyara/share"
	"voyara/utils"
)

type variantRequest struct {
	Label          string  `json:"label"`
	Cost           float64 `json:"cost"`
	Currency       string  `json:"currency"`
	Quantity       int     `json:"quantity"`
	PricePerUnit   float64 `json:"pricePerUnit"`
	VariantType    string  `json:"variantType"`
	Refundability  string  `json:"refundability"`
	RefundDeadline string  `json:"refundDeadline"`
}

func (req *variantRequest) validate() string {
	req.Label = strings.TrimSpace(req.Label)
	switch req.VariantType {
	case "", models.VariantTypeUpgrade, models.VariantTypeAlt:
	default:
		return "variantType must be upgrade or alternative"
	}
	switch req.Refundability {
	case "", models.RefundUnknown, models.RefundNone, models.RefundFull, models.RefundPartial:
	default:
		return "unknown refundability"
	}
	if req.Label == "" && req.VariantType == models.VariantTypeAlt {
		return "alternatives need a label"
	}
	return ""
}

func CreateVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	var req variantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now()
	variant := models.SegmentVariant{
		VariantID:      utils.GenerateID("var"),
		SegmentID:      segmentID,
		OrgID:          orgID,
		Label:          req.Label,
		Cost:           req.Cost,
		Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
		Quantity:       req.Quantity,
		PricePerUnit:   req.PricePerUnit,
		VariantType:    req.VariantType,
		Refundability:  req.Refundability,
		RefundDeadline: req.RefundDeadline,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := db.VariantsCollection.InsertOne(ctx, variant); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create variant", err)
		return
	}

	if !seg.HasVariants {
		_, _ = db.SegmentsCollection.UpdateOne(ctx,
			bson.M{"segmentid": segmentID, "orgId": orgID},
			bson.M{"$set": bson.M{"hasVariants": true}})
	}

	share.InvalidateTripCache(seg.TripID)
	utils.RespondWithJSON(w, http.StatusCreated, variant)
}

func GetVariants(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	list, err := utils.FindAndDecode[models.SegmentVariant](ctx, db.VariantsCollection,
		bson.M{"segmentId": ps.ByName("segmentid"), "orgId": orgID},
		options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not list variants", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func UpdateVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	variantID := ps.ByName("variantid")

	variant, err := utils.FindOneAndDecode[models.SegmentVariant](ctx, db.VariantsCollection,
		bson.M{"variantid": variantID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "variant not found")
		return
	}

	var req variantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := db.VariantsCollection.UpdateOne(ctx,
		bson.M{"variantid": variantID, "orgId": orgID},
		bson.M{"$set": bson.M{
			"label":          req.Label,
			"cost":           req.Cost,
			"currency":       strings.ToUpper(strings.TrimSpace(req.Currency)),
			"quantity":       req.Quantity,
			"pricePerUnit":   req.PricePerUnit,
			"variantType":    req.VariantType,
			"refundability":  req.Refundability,
			"refundDeadline": req.RefundDeadline,
			"updatedAt":      time.Now(),
		}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update variant", err)
		return
	}

	invalidateVariantTrip(ctx, orgID, variant.SegmentID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func DeleteVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	variantID := ps.ByName("variantid")

	variant, err := utils.FindOneAndDecode[models.SegmentVariant](ctx, db.VariantsCollection,
		bson.M{"variantid": variantID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "variant not found")
		return
	}
	if _, err := db.VariantsCollection.DeleteOne(ctx,
		bson.M{"variantid": variantID, "orgId": orgID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete variant", err)
		return
	}

	remaining, err := db.VariantsCollection.CountDocuments(ctx,
		bson.M{"segmentId": variant.SegmentID, "orgId": orgID})
	if err == nil && remaining == 0 {
		_, _ = db.SegmentsCollection.UpdateOne(ctx,
			bson.M{"segmentid": variant.SegmentID, "orgId": orgID},
			bson.M{"$set": bson.M{"hasVariants": false}})
	}

	invalidateVariantTrip(ctx, orgID, variant.SegmentID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// SelectVariant locks one variant as the advisor's pick. At most one
// variant per segment is selected, so siblings are cleared first.
func SelectVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	variantID := ps.ByName("variantid")

	variant, err := utils.FindOneAndDecode[models.SegmentVariant](ctx, db.VariantsCollection,
		bson.M{"variantid": variantID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "variant not found")
		return
	}

	if _, err := db.VariantsCollection.UpdateMany(ctx,
		bson.M{"segmentId": variant.SegmentID, "orgId": orgID},
		bson.M{"$set": bson.M{"isSelected": false}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not clear selection", err)
		return
	}
	if _, err := db.VariantsCollection.UpdateOne(ctx,
		bson.M{"variantid": variantID, "orgId": orgID},
		bson.M{"$set": bson.M{"isSelected": true, "updatedAt": time.Now()}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not select variant", err)
		return
	}

	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": variant.SegmentID, "orgId": orgID})
	if err == nil {
		share.InvalidateTripCache(seg.TripID)
		mq.Emit(mq.VariantSelected, mq.Message{OrgID: orgID, TripID: seg.TripID, Ref: variantID})
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"selected": true})
}

// ClearVariantSelection reopens a segment's options.
func ClearVariantSelection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	if _, err := db.VariantsCollection.UpdateMany(ctx,
		bson.M{"segmentId": segmentID, "orgId": orgID},
		bson.M{"$set": bson.M{"isSelected": false}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not clear selection", err)
		return
	}

	share.InvalidateTripCache(seg.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

func invalidateVariantTrip(ctx context.Context, orgID, segmentID string) {
	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": segmentID, "orgId": orgID})
	if err != nil {
		return
	}
	share.InvalidateTripCache(seg.TripID)
}
