package models

import "time"

// ActivityEntry is one bus event kept for the org's activity feed.
type ActivityEntry struct {
	ActivityID string    `json:"activityid" bson:"activityid"`
	OrgID      string    `json:"orgId" bson:"orgId"`
	TripID     string    `json:"tripId,omitempty" bson:"tripId,omitempty"`
	Event      string    `json:"event" bson:"event"`
	Ref        string    `json:"ref,omitempty" bson:"ref,omitempty"`
	Detail     string    `json:"detail,omitempty" bson:"detail,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
