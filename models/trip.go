package models

import "time"

// Discount types carried on a version.
const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Trip is one planning engagement for a client. Trips are soft-deleted via
// Status so references from documents and shares stay resolvable.
type Trip struct {
	TripID            string    `json:"tripid" bson:"tripid"`
	OrgID             string    `json:"orgId" bson:"orgId"`
	ClientID          string    `json:"clientId" bson:"clientId"`
	AdvisorID         string    `json:"advisorId" bson:"advisorId"`
	Title             string    `json:"title" bson:"title"`
	Destinations      []string  `json:"destinations" bson:"destinations"`
	StartDate         string    `json:"startDate,omitempty" bson:"startDate,omitempty"` // YYYY-MM-DD
	EndDate           string    `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Currency          string    `json:"currency,omitempty" bson:"currency,omitempty"`
	Budget            float64   `json:"budget,omitempty" bson:"budget,omitempty"`
	Companions        []string  `json:"companions,omitempty" bson:"companions,omitempty"`
	CoverPhotoURL     string    `json:"coverPhotoUrl,omitempty" bson:"coverPhotoUrl,omitempty"`
	ApprovedVersionID string    `json:"approvedVersionId,omitempty" bson:"approvedVersionId,omitempty"`
	Status            string    `json:"status" bson:"status"` // planning | approved | completed | archived
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TripVersion is one named draft of an itinerary. Exactly one version per
// trip is primary at a time.
type TripVersion struct {
	VersionID     string    `json:"versionid" bson:"versionid"`
	TripID        string    `json:"tripId" bson:"tripId"`
	OrgID         string    `json:"orgId" bson:"orgId"`
	Name          string    `json:"name" bson:"name"`
	IsPrimary     bool      `json:"isPrimary" bson:"isPrimary"`
	ShowPricing   bool      `json:"showPricing" bson:"showPricing"`
	Discount      int       `json:"discount,omitempty" bson:"discount,omitempty"`
	DiscountType  string    `json:"discountType,omitempty" bson:"discountType,omitempty"` // percent | fixed
	DiscountLabel string    `json:"discountLabel,omitempty" bson:"discountLabel,omitempty"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// IsApproved reports whether v is the version the client formally accepted.
func (v *TripVersion) IsApproved(t *Trip) bool {
	return t != nil && t.ApprovedVersionID != "" && t.ApprovedVersionID == v.VersionID
}
