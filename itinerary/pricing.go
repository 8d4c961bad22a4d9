package itinerary

import (
	"voyara/models"
)

// Pricing display modes.
const (
	PricingFinalized = "finalized" // approved version: the pick only, no options box
	PricingSelected  = "selected"  // advisor locked a variant, approval pending
	PricingOpen      = "open"      // primary plus the full options list
)

// PriceLine is one formatted price row.
type PriceLine struct {
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency,omitempty"`
	PerUnit    string  `json:"perUnit,omitempty"`
	RefundText string  `json:"refundText,omitempty"`
	Requested  bool    `json:"requested,omitempty"` // render "Requested" instead of the amount
}

// PricingView is what a render target draws for one segment (or for a
// journey, via its first leg).
type PricingView struct {
	Mode     string      `json:"mode"`
	Header   string      `json:"header,omitempty"`
	Primary  PriceLine   `json:"primary"`
	Selected *PriceLine  `json:"selected,omitempty"`
	Options  []PriceLine `json:"options,omitempty"`
}

// ResolvePricing decides what price and label a segment shows under the
// three regimes: approved (finalized pick, variants suppressed entirely),
// selected-but-unapproved (a single locked option box), and open (primary
// plus every variant).
func ResolvePricing(seg *models.TripSegment, variants []models.SegmentVariant, approved bool) PricingView {
	selected := models.SelectedVariant(variants)

	if approved {
		line := primaryLine(seg)
		if selected != nil {
			line = variantLine(seg, selected)
		}
		return PricingView{Mode: PricingFinalized, Primary: line}
	}

	if selected != nil {
		sel := variantLine(seg, selected)
		return PricingView{
			Mode:     PricingSelected,
			Header:   "Selected Option",
			Primary:  primaryLine(seg),
			Selected: &sel,
		}
	}

	view := PricingView{Mode: PricingOpen, Primary: primaryLine(seg)}
	if len(variants) == 0 {
		return view
	}

	view.Header = "Options"
	for i := range variants {
		if variants[i].IsSubmitted {
			view.Header = "Options (client preference indicated)"
			break
		}
	}
	for i := range variants {
		v := &variants[i]
		line := variantLine(seg, v)
		line.Requested = v.IsSubmitted
		view.Options = append(view.Options, line)
	}
	return view
}

func primaryLine(seg *models.TripSegment) PriceLine {
	return PriceLine{
		Label:    PrimaryLabel(seg),
		Amount:   seg.Cost,
		Currency: seg.Currency,
		PerUnit:  PerUnitClause(seg.Cost, seg.PricePerUnit, seg.Quantity, UnitLabel(seg.Type), seg.Currency),
	}
}

func variantLine(seg *models.TripSegment, v *models.SegmentVariant) PriceLine {
	currency := v.Currency
	if currency == "" {
		currency = seg.Currency
	}
	return PriceLine{
		Label:      VariantLabel(seg, v),
		Amount:     v.Cost,
		Currency:   currency,
		PerUnit:    PerUnitClause(v.Cost, v.PricePerUnit, v.Quantity, UnitLabel(seg.Type), currency),
		RefundText: RefundText(v.Refundability, v.RefundDeadline),
	}
}

// VariantLabel composes the display label for a variant. Upgrades merge
// the segment's identity with the variant label so the client sees what
// changes; other variant types are independent alternatives and display
// their label verbatim.
func VariantLabel(seg *models.TripSegment, v *models.SegmentVariant) string {
	if v.VariantType != "" && v.VariantType != models.VariantTypeUpgrade {
		return v.Label
	}
	identity := SegmentIdentity(seg)
	switch {
	case identity == "":
		return v.Label
	case v.Label == "":
		return identity
	default:
		return identity + " - " + v.Label
	}
}
