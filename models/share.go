package models

import "time"

// ShareLink grants client access to one trip version through an
// unguessable token. Holders can view and export; approval additionally
// needs AllowApproval. Revocation is a flag, not a delete.
type ShareLink struct {
	Token         string     `json:"token" bson:"token"`
	OrgID         string     `json:"orgId" bson:"orgId"`
	TripID        string     `json:"tripId" bson:"tripId"`
	VersionID     string     `json:"versionId,omitempty" bson:"versionId,omitempty"` // empty = approved or primary version at view time
	AllowApproval bool       `json:"allowApproval,omitempty" bson:"allowApproval,omitempty"`
	CreatedBy     string     `json:"createdBy" bson:"createdBy"`
	Revoked       bool       `json:"revoked,omitempty" bson:"revoked,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	ViewCount     int64      `json:"viewCount" bson:"viewCount"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
}

// Usable reports whether the link still grants access at time now.
func (s *ShareLink) Usable(now time.Time) bool {
	if s.Revoked {
		return false
	}
	if s.ExpiresAt != nil && now.After(*s.ExpiresAt) {
		return false
	}
	return true
}
