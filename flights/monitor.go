package flights

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"voyara/db"
	"voyara/models"
	"voyara/mq"
	"voyara/utils"
)

// Monitor polls active tracked flights and publishes an alert whenever a
// status changes. Run it from main in its own goroutine; it never
// returns.
func Monitor(interval time.Duration) {
	client := NewStatusClient()
	if client.BaseURL == "" {
		log.Println("[Flights] FLIGHT_API_URL not set, monitor disabled")
		return
	}

	ticker := time.NewTicker(interval)
	for range ticker.C {
		runCycle(client)
	}
}

func runCycle(src StatusSource) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	from := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	to := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	tracked, err := utils.FindAndDecode[models.TrackedFlight](ctx, db.TrackedFlightsCollection,
		bson.M{"active": true, "date": bson.M{"$gte": from, "$lte": to}})
	if err != nil {
		log.Printf("[Flights] load tracked flights: %v", err)
		return
	}

	for i := range tracked {
		t := &tracked[i]
		status, err := cachedStatus(ctx, src, t.Airline, t.FlightNumber, t.Date)
		if err != nil {
			log.Printf("[Flights] %s%s on %s: %v", t.Airline, t.FlightNumber, t.Date, err)
			continue
		}

		if t.LastStatus != "" && status.Status != t.LastStatus {
			detail := fmt.Sprintf("%s %s now %s (was %s)", t.Airline, t.FlightNumber, status.Status, t.LastStatus)
			if status.DelayMinutes > 0 {
				detail += fmt.Sprintf(", delayed %dm", status.DelayMinutes)
			}
			mq.Emit(mq.FlightAlert, mq.Message{
				OrgID:  t.OrgID,
				TripID: t.TripID,
				Ref:    t.TrackID,
				Detail: detail,
			})
		}

		if _, err := db.TrackedFlightsCollection.UpdateOne(ctx,
			bson.M{"trackid": t.TrackID},
			bson.M{"$set": bson.M{"lastStatus": status.Status, "lastChecked": time.Now()}}); err != nil {
			log.Printf("[Flights] update %s: %v", t.TrackID, err)
		}

		// landed flights stop consuming provider quota
		if status.Status == "landed" {
			_, _ = db.TrackedFlightsCollection.UpdateOne(ctx,
				bson.M{"trackid": t.TrackID},
				bson.M{"$set": bson.M{"active": false}})
		}
	}
}
