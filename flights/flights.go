// Package flights tracks flight segments against an external status
// provider and raises alerts when a status flips.
package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
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

const statusCacheTTL = 5 * time.Minute

// StatusSource answers live status queries for one flight on one
// departure date. The provider behind it is a black box.
type StatusSource interface {
	Lookup(ctx context.Context, airline, flightNumber, date string) (*models.FlightStatus, error)
}

// StatusClient is the HTTP StatusSource. Zero-value fields fall back to
// the FLIGHT_API_URL and FLIGHT_API_KEY environment.
type StatusClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewStatusClient() *StatusClient {
	return &StatusClient{
		BaseURL: strings.TrimRight(os.Getenv("FLIGHT_API_URL"), "/"),
		APIKey:  os.Getenv("FLIGHT_API_KEY"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup fetches live status for one flight on one departure date.
func (c *StatusClient) Lookup(ctx context.Context, airline, flightNumber, date string) (*models.FlightStatus, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("flight status provider not configured")
	}

	q := url.Values{}
	q.Set("airline", airline)
	q.Set("flight", flightNumber)
	q.Set("date", date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/status?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	var status models.FlightStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}

func statusCacheKey(airline, flightNumber, date string) string {
	return fmt.Sprintf("flight:status:%s%s:%s", airline, flightNumber, date)
}

// cachedStatus serves from Redis when fresh, hitting the source
// otherwise. The monitor and the on-demand endpoint share the cache.
func cachedStatus(ctx context.Context, src StatusSource, airline, flightNumber, date string) (*models.FlightStatus, error) {
	key := statusCacheKey(airline, flightNumber, date)
	if raw, err := rdx.RdxGet(key); err == nil && raw != "" {
		var status models.FlightStatus
		if json.Unmarshal([]byte(raw), &status) == nil {
			return &status, nil
		}
	}

	status, err := src.Lookup(ctx, airline, flightNumber, date)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(status); err == nil {
		_ = rdx.RdxSetWithTTL(key, string(raw), statusCacheTTL)
	}
	return status, nil
}

type trackRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, derived from the segment when empty
}

// TrackFlight puts a flight segment on the monitor's watch list.
func TrackFlight(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
	f := seg.Meta.Flight
	if f == nil || f.Airline == "" || f.FlightNumber == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "segment has no trackable flight")
		return
	}

	var req trackRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	date := req.Date
	if date == "" {
		date = departureDate(ctx, seg)
	}
	if date == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "cannot determine the departure date; pass one")
		return
	}
	if _, err := utils.ParseDate(date); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	// re-tracking the same segment reactivates rather than duplicating
	existing, err := utils.FindOneAndDecode[models.TrackedFlight](ctx, db.TrackedFlightsCollection,
		bson.M{"segmentId": segmentID, "orgId": orgID})
	if err == nil {
		_, _ = db.TrackedFlightsCollection.UpdateOne(ctx,
			bson.M{"trackid": existing.TrackID},
			bson.M{"$set": bson.M{"active": true, "date": date}})
		existing.Active = true
		existing.Date = date
		utils.RespondWithJSON(w, http.StatusOK, existing)
		return
	}

	track := models.TrackedFlight{
		TrackID:      utils.GenerateID("trk"),
		OrgID:        orgID,
		TripID:       seg.TripID,
		SegmentID:    segmentID,
		Airline:      f.Airline,
		FlightNumber: f.FlightNumber,
		Date:         date,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if _, err := db.TrackedFlightsCollection.InsertOne(ctx, track); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not track flight", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, track)
}

func UntrackFlight(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	res, err := db.TrackedFlightsCollection.UpdateOne(ctx,
		bson.M{"trackid": ps.ByName("trackid"), "orgId": orgID},
		bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not untrack flight", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "tracked flight not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"active": false})
}

func GetTrackedFlights(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	filter := bson.M{"orgId": orgID}
	if r.URL.Query().Get("all") != "true" {
		filter["active"] = true
	}
	if tripID := r.URL.Query().Get("tripId"); tripID != "" {
		filter["tripId"] = tripID
	}

	list, err := utils.FindAndDecode[models.TrackedFlight](ctx, db.TrackedFlightsCollection, filter,
		options.Find().SetSort(bson.M{"date": 1}))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not list tracked flights", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetFlightStatus looks up live status for one tracked flight.
func GetFlightStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	track, err := utils.FindOneAndDecode[models.TrackedFlight](ctx, db.TrackedFlightsCollection,
		bson.M{"trackid": ps.ByName("trackid"), "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "tracked flight not found")
		return
	}

	status, err := cachedStatus(ctx, NewStatusClient(), track.Airline, track.FlightNumber, track.Date)
	if err != nil {
		utils.Error(w, http.StatusBadGateway, "status lookup failed", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, status)
}

// departureDate derives the YYYY-MM-DD the flight leaves: the flight
// meta's own timestamps first, the trip start plus day offset as the
// fallback.
func departureDate(ctx context.Context, seg *models.TripSegment) string {
	f := seg.Meta.Flight
	for _, candidate := range []string{f.DepartureLocal, f.DepartureTimeUTC} {
		if len(candidate) >= 10 {
			if _, err := utils.ParseDate(candidate[:10]); err == nil {
				return candidate[:10]
			}
		}
	}

	trip, err := utils.FindOneAndDecode[models.Trip](ctx, db.TripsCollection,
		bson.M{"tripid": seg.TripID, "orgId": seg.OrgID})
	if err != nil {
		return ""
	}
	start, err := utils.ParseDate(trip.StartDate)
	if err != nil {
		return ""
	}
	return start.AddDate(0, 0, seg.DayNumber-1).Format("2006-01-02")
}
