package models

import "time"

// Refundability states for segment variants.
const (
	RefundUnknown = "unknown"
	RefundNone    = "non_refundable"
	RefundFull    = "refundable"
	RefundPartial = "partial"
)

const (
	VariantTypeUpgrade = "upgrade"
	VariantTypeAlt     = "alternative"
)

// SegmentVariant is a priced upgrade or alternative attached to a segment.
// IsSubmitted records a client preference made pre-approval; IsSelected
// marks the finalized choice. The two are independent: a submitted
// preference can be overridden by the advisor's selection.
type SegmentVariant struct {
	VariantID      string    `json:"variantid" bson:"variantid"`
	SegmentID      string    `json:"segmentId" bson:"segmentId"`
	OrgID          string    `json:"orgId" bson:"orgId"`
	Label          string    `json:"label" bson:"label"`
	Cost           float64   `json:"cost,omitempty" bson:"cost,omitempty"`
	Currency       string    `json:"currency,omitempty" bson:"currency,omitempty"`
	Quantity       int       `json:"quantity,omitempty" bson:"quantity,omitempty"`
	PricePerUnit   float64   `json:"pricePerUnit,omitempty" bson:"pricePerUnit,omitempty"`
	VariantType    string    `json:"variantType,omitempty" bson:"variantType,omitempty"` // "upgrade" renders as a delta over the primary
	Refundability  string    `json:"refundability,omitempty" bson:"refundability,omitempty"`
	RefundDeadline string    `json:"refundDeadline,omitempty" bson:"refundDeadline,omitempty"`
	IsSubmitted    bool      `json:"isSubmitted,omitempty" bson:"isSubmitted,omitempty"`
	IsSelected     bool      `json:"isSelected,omitempty" bson:"isSelected,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SelectedVariant returns the first variant marked selected. The write
// side keeps at most one selected per segment; first match is the
// documented tie-break if bad data slips through.
func SelectedVariant(variants []SegmentVariant) *SegmentVariant {
	for i := range variants {
		if variants[i].IsSelected {
			return &variants[i]
		}
	}
	return nil
}
