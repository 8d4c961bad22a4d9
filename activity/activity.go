// Package activity persists bus events as the org-facing activity feed:
// who approved what, which flights flipped status, what clients opened.
package activity

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyara/db"
	"voyara/models"
	"voyara/mq"
	"voyara/utils"
)

// Record stores one bus event. Events without an org are process-level
// noise and are skipped.
func Record(msg mq.Message) {
	if msg.OrgID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := models.ActivityEntry{
		ActivityID: utils.GenerateID("act"),
		OrgID:      msg.OrgID,
		TripID:     msg.TripID,
		Event:      msg.Event,
		Ref:        msg.Ref,
		Detail:     msg.Detail,
		CreatedAt:  time.Now(),
	}
	if _, err := db.ActivitiesCollection.InsertOne(ctx, entry); err != nil {
		log.Printf("[Activity] record %s: %v", msg.Event, err)
	}
}

// GetActivity lists recent org activity, newest first. Optional tripId
// and event filters narrow the feed.
func GetActivity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	page := utils.ParsePagination(r, 50, 200)

	filter := bson.M{"orgId": orgID}
	if tripID := r.URL.Query().Get("tripId"); tripID != "" {
		filter["tripId"] = tripID
	}
	if event := r.URL.Query().Get("event"); event != "" {
		filter["event"] = event
	}

	list, err := utils.FindAndDecode[models.ActivityEntry](ctx, db.ActivitiesCollection, filter,
		options.Find().
			SetSort(bson.M{"createdAt": -1}).
			SetSkip(int64(page.Skip)).
			SetLimit(int64(page.Limit)))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not list activity", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}
