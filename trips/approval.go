package trips

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"voyara/db"
	"voyara/models"
	"voyara/mq"
	"voyara/share"
	"voyara/utils"
)

// ApproveTripByShare records a client approval coming in through an
// approval-enabled share link. Public route; the token is the only
// credential. The approved version is the one the link pins, or the one
// the client was looking at (approved, else primary) for unpinned links.
func ApproveTripByShare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	link, err := share.Resolve(ctx, ps.ByName("token"))
	switch {
	case errors.Is(err, share.ErrUnknownToken):
		utils.RespondWithError(w, http.StatusNotFound, "unknown link")
		return
	case errors.Is(err, share.ErrLinkDisabled):
		utils.RespondWithError(w, http.StatusGone, "this link is no longer active")
		return
	}
	if !link.AllowApproval {
		utils.RespondWithError(w, http.StatusForbidden, "this link cannot approve the itinerary")
		return
	}

	trip, err := utils.FindOneAndDecode[models.Trip](ctx, db.TripsCollection,
		bson.M{"tripid": link.TripID, "orgId": link.OrgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "itinerary not found")
		return
	}

	versionID := link.VersionID
	if versionID == "" {
		versionID = trip.ApprovedVersionID
	}
	if versionID == "" {
		version, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection,
			bson.M{"tripId": link.TripID, "orgId": link.OrgID, "isPrimary": true})
		if err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "itinerary not found")
			return
		}
		versionID = version.VersionID
	}

	if trip.ApprovedVersionID == versionID {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"approved": true, "versionId": versionID})
		return
	}

	if _, err := db.TripsCollection.UpdateOne(ctx,
		bson.M{"tripid": link.TripID, "orgId": link.OrgID},
		bson.M{"$set": bson.M{"approvedVersionId": versionID, "status": "approved", "updatedAt": time.Now()}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not record the approval", err)
		return
	}

	promoteSubmittedVariants(ctx, link.OrgID, versionID)

	share.InvalidateTripCache(link.TripID)
	mq.Emit(mq.VersionApproved, mq.Message{OrgID: link.OrgID, TripID: link.TripID, Ref: versionID, Detail: "approved by client"})
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"approved": true, "versionId": versionID})
}
