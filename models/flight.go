package models

import "time"

// TrackedFlight is a flight segment the monitor polls for status changes.
type TrackedFlight struct {
	TrackID      string    `json:"trackid" bson:"trackid"`
	OrgID        string    `json:"orgId" bson:"orgId"`
	TripID       string    `json:"tripId" bson:"tripId"`
	SegmentID    string    `json:"segmentId" bson:"segmentId"`
	Airline      string    `json:"airline" bson:"airline"`
	FlightNumber string    `json:"flightNumber" bson:"flightNumber"`
	Date         string    `json:"date" bson:"date"` // YYYY-MM-DD departure date
	LastStatus   string    `json:"lastStatus,omitempty" bson:"lastStatus,omitempty"`
	LastChecked  time.Time `json:"lastChecked,omitempty" bson:"lastChecked,omitempty"`
	Active       bool      `json:"active" bson:"active"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// FlightStatus is the provider's answer for one tracked flight.
type FlightStatus struct {
	Status       string `json:"status"` // scheduled | delayed | cancelled | landed
	Departure    string `json:"departure,omitempty"`
	Arrival      string `json:"arrival,omitempty"`
	DelayMinutes int    `json:"delayMinutes,omitempty"`
	Gate         string `json:"gate,omitempty"`
	Terminal     string `json:"terminal,omitempty"`
}
