package share

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"voyara/db"
	"voyara/models"
	"voyara/mq"
	"voyara/utils"
)

// SubmitVariant records a client preference through a share link: "this
// is the option I want". It only flags the variant; the advisor still
// confirms by selecting, or approval promotes it.
func SubmitVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	link, ok := resolveShare(ctx, w, ps.ByName("token"))
	if !ok {
		return
	}
	variant, seg, ok := shareVariant(ctx, w, link, ps.ByName("variantid"))
	if !ok {
		return
	}

	trip, err := utils.FindOneAndDecode[models.Trip](ctx, db.TripsCollection,
		bson.M{"tripid": link.TripID, "orgId": link.OrgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "itinerary not found")
		return
	}
	if trip.ApprovedVersionID != "" && trip.ApprovedVersionID == seg.VersionID {
		utils.RespondWithError(w, http.StatusConflict, "this itinerary is already finalized")
		return
	}

	if _, err := db.VariantsCollection.UpdateOne(ctx,
		bson.M{"variantid": variant.VariantID},
		bson.M{"$set": bson.M{"isSubmitted": true, "updatedAt": time.Now()}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not record preference", err)
		return
	}

	InvalidateTripCache(link.TripID)
	mq.Emit(mq.VariantSubmitted, mq.Message{OrgID: link.OrgID, TripID: link.TripID, Ref: variant.VariantID})
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"submitted": true})
}

// WithdrawVariant takes a submitted preference back.
func WithdrawVariant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	link, ok := resolveShare(ctx, w, ps.ByName("token"))
	if !ok {
		return
	}
	variant, _, ok := shareVariant(ctx, w, link, ps.ByName("variantid"))
	if !ok {
		return
	}

	if _, err := db.VariantsCollection.UpdateOne(ctx,
		bson.M{"variantid": variant.VariantID},
		bson.M{"$set": bson.M{"isSubmitted": false, "updatedAt": time.Now()}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not withdraw preference", err)
		return
	}

	InvalidateTripCache(link.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"submitted": false})
}

// shareVariant loads a variant and verifies it belongs to the itinerary
// the link exposes. Tokens never reach across trips.
func shareVariant(ctx context.Context, w http.ResponseWriter, link *models.ShareLink, variantID string) (*models.SegmentVariant, *models.TripSegment, bool) {
	variant, err := utils.FindOneAndDecode[models.SegmentVariant](ctx, db.VariantsCollection,
		bson.M{"variantid": variantID, "orgId": link.OrgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "option not found")
		return nil, nil, false
	}
	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": variant.SegmentID, "orgId": link.OrgID})
	if err != nil || seg.TripID != link.TripID {
		utils.RespondWithError(w, http.StatusNotFound, "option not found")
		return nil, nil, false
	}
	if link.VersionID != "" && seg.VersionID != link.VersionID {
		utils.RespondWithError(w, http.StatusNotFound, "option not found")
		return nil, nil, false
	}
	return variant, seg, true
}
