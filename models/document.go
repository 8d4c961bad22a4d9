package models

import "time"

// TravelDocument is an uploaded file in a client's vault (passport scan,
// voucher, visa letter). The bytes live in blob storage; this row holds
// the lookup metadata.
type TravelDocument struct {
	DocumentID  string    `json:"documentid" bson:"documentid"`
	OrgID       string    `json:"orgId" bson:"orgId"`
	ClientID    string    `json:"clientId,omitempty" bson:"clientId,omitempty"`
	TripID      string    `json:"tripId,omitempty" bson:"tripId,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category" bson:"category"` // passport | visa | insurance | ticket | voucher | other
	FileName    string    `json:"fileName" bson:"fileName"`
	ContentType string    `json:"contentType" bson:"contentType"`
	Size        int64     `json:"size" bson:"size"`
	Thumbnail   string    `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	UploadedBy  string    `json:"uploadedBy" bson:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
