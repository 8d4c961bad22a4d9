package models

import "time"

// Client is a traveler the agency plans trips for.
type Client struct {
	ClientID  string    `json:"clientid" bson:"clientid"`
	OrgID     string    `json:"orgId" bson:"orgId"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	Tags      []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	Archived  bool      `json:"archived,omitempty" bson:"archived,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
