package models

import "time"

// ChatMessage is one message in a trip's discussion room.
type ChatMessage struct {
	MessageID string    `json:"messageid" bson:"messageid"`
	TripID    string    `json:"tripId" bson:"tripId"`
	OrgID     string    `json:"orgId" bson:"orgId"`
	UserID    string    `json:"userId" bson:"userId"`
	UserName  string    `json:"userName" bson:"userName"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
