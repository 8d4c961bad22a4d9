package models

import "time"

// User is an advisor account. Auth is username/password; every user
// belongs to one organization.
type User struct {
	UserID       string    `json:"userid" bson:"userid"`
	OrgID        string    `json:"orgId" bson:"orgId"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         string    `json:"role" bson:"role"` // advisor | admin
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Advisor is the public profile rendered on covers and contact blocks.
type Advisor struct {
	AdvisorID string    `json:"advisorid" bson:"advisorid"` // same as UserID
	OrgID     string    `json:"orgId" bson:"orgId"`
	Name      string    `json:"name" bson:"name"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	OrgName   string    `json:"orgName,omitempty" bson:"orgName,omitempty"`
	LogoPath  string    `json:"logoPath,omitempty" bson:"logoPath,omitempty"`
	Website   string    `json:"website,omitempty" bson:"website,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
