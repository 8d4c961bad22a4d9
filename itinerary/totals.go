package itinerary

import (
	"fmt"
	"math"

	"voyara/models"
)

// TotalsSummary is the version-level pricing block.
type TotalsSummary struct {
	Subtotal      float64 `json:"subtotal"`
	DiscountValue float64 `json:"discountValue"`
	DiscountLabel string  `json:"discountLabel,omitempty"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency,omitempty"`
}

// ComputeTotals rolls per-segment costs into the version subtotal,
// applies the version discount, and clamps the final total at zero. When
// the subtotal is not positive it returns nil and callers render no
// pricing block at all.
//
// Effective cost per segment: on an approved version, the selected
// variant's cost when one exists, else the segment's own cost. On an
// unapproved version, always the segment's own cost. Either way, members
// of a choice group where a sibling was chosen are skipped entirely:
// only the chosen member counts, matching the collapsed group the
// render targets draw.
func ComputeTotals(version *models.TripVersion, segments []models.TripSegment, variantsBySegment map[string][]models.SegmentVariant, approved bool, currency string) *TotalsSummary {
	if version == nil {
		return nil
	}

	chosenGroups := make(map[string]bool)
	for i := range segments {
		if segments[i].ChoiceGroupID != "" && segments[i].IsChoiceSelected {
			chosenGroups[segments[i].ChoiceGroupID] = true
		}
	}

	var subtotal float64
	for i := range segments {
		s := &segments[i]
		if s.ChoiceGroupID != "" && chosenGroups[s.ChoiceGroupID] && !s.IsChoiceSelected {
			continue
		}
		if approved {
			if v := models.SelectedVariant(variantsBySegment[s.SegmentID]); v != nil {
				subtotal += v.Cost
			} else {
				subtotal += s.Cost
			}
			continue
		}
		subtotal += s.Cost
	}

	if subtotal <= 0 {
		return nil
	}

	var discountVal float64
	label := version.DiscountLabel
	if version.Discount > 0 {
		switch version.DiscountType {
		case models.DiscountPercent:
			discountVal = math.Round(subtotal * float64(version.Discount) / 100)
			if label == "" {
				label = fmt.Sprintf("Discount (%d%%)", version.Discount)
			}
		default:
			discountVal = float64(version.Discount)
			if label == "" {
				label = "Discount"
			}
		}
	}

	total := subtotal - discountVal
	if total < 0 {
		total = 0
	}

	return &TotalsSummary{
		Subtotal:      subtotal,
		DiscountValue: discountVal,
		DiscountLabel: label,
		Total:         total,
		Currency:      currency,
	}
}
