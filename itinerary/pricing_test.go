package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyara/models"
)

func flightWithVariants(hasVariants bool) *models.TripSegment {
	return &models.TripSegment{
		SegmentID:   "s1",
		Type:        models.SegmentFlight,
		Cost:        1200,
		Currency:    "USD",
		Quantity:    2,
		HasVariants: hasVariants,
		Meta: models.SegmentMeta{Flight: &models.FlightMeta{
			DepartureAirport: "JFK",
			ArrivalAirport:   "LHR",
			Stops:            "nonstop",
			Cabin:            "economy",
		}},
	}
}

func TestResolvePricing_ApprovedSuppressesVariants(t *testing.T) {
	seg := flightWithVariants(true)
	variants := []models.SegmentVariant{
		{VariantID: "v1", Label: "Business Class", Cost: 3400},
		{VariantID: "v2", Label: "Premium Economy", Cost: 1900},
	}

	view := ResolvePricing(seg, variants, true)
	assert.Equal(t, PricingFinalized, view.Mode)
	assert.Empty(t, view.Options)
	assert.Nil(t, view.Selected)
	assert.Equal(t, 1200.0, view.Primary.Amount)
	assert.Contains(t, view.Primary.Label, "JFK->LHR")
}

func TestResolvePricing_ApprovedUsesSelectedVariant(t *testing.T) {
	seg := flightWithVariants(true)
	variants := []models.SegmentVariant{
		{VariantID: "v1", Label: "Business Class", Cost: 3400, IsSelected: true},
		{VariantID: "v2", Label: "Premium Economy", Cost: 1900},
	}

	view := ResolvePricing(seg, variants, true)
	assert.Equal(t, PricingFinalized, view.Mode)
	assert.Empty(t, view.Options)
	assert.Equal(t, 3400.0, view.Primary.Amount)
	assert.Equal(t, "JFK->LHR - Business Class", view.Primary.Label)
}

func TestResolvePricing_SelectedBeforeApproval(t *testing.T) {
	seg := flightWithVariants(true)
	variants := []models.SegmentVariant{
		{VariantID: "v1", Label: "Business Class", Cost: 3400, IsSelected: true, Refundability: models.RefundNone},
		{VariantID: "v2", Label: "Premium Economy", Cost: 1900},
	}

	view := ResolvePricing(seg, variants, false)
	assert.Equal(t, PricingSelected, view.Mode)
	assert.Equal(t, "Selected Option", view.Header)
	require.NotNil(t, view.Selected)
	assert.Equal(t, 3400.0, view.Selected.Amount)
	assert.Equal(t, "Non-refundable", view.Selected.RefundText)
	assert.Empty(t, view.Options, "full options list is suppressed once a choice is locked")
}

func TestResolvePricing_OpenListsAllVariants(t *testing.T) {
	seg := flightWithVariants(true)
	variants := []models.SegmentVariant{
		{VariantID: "v1", Label: "Business Class", Cost: 3400},
		{VariantID: "v2", Label: "Stopover in Lisbon", Cost: 900, VariantType: models.VariantTypeAlt},
	}

	view := ResolvePricing(seg, variants, false)
	assert.Equal(t, PricingOpen, view.Mode)
	assert.Equal(t, "Options", view.Header)
	require.Len(t, view.Options, 2)

	// upgrades merge the segment identity; alternatives stay verbatim
	assert.Equal(t, "JFK->LHR - Business Class", view.Options[0].Label)
	assert.Equal(t, "Stopover in Lisbon", view.Options[1].Label)
}

func TestResolvePricing_SubmittedShowsRequested(t *testing.T) {
	seg := flightWithVariants(true)
	variants := []models.SegmentVariant{
		{VariantID: "v1", Label: "Business Class", Cost: 3400, IsSubmitted: true},
		{VariantID: "v2", Label: "Premium Economy", Cost: 1900},
	}

	view := ResolvePricing(seg, variants, false)
	assert.Equal(t, "Options (client preference indicated)", view.Header)
	require.Len(t, view.Options, 2)
	assert.True(t, view.Options[0].Requested)
	assert.False(t, view.Options[1].Requested)
}

func TestResolvePricing_NoVariants(t *testing.T) {
	seg := flightWithVariants(false)

	view := ResolvePricing(seg, nil, false)
	assert.Equal(t, PricingOpen, view.Mode)
	assert.Empty(t, view.Header)
	assert.Empty(t, view.Options)
	assert.Equal(t, 1200.0, view.Primary.Amount)
}

func TestResolvePricing_PerUnitFromQuantity(t *testing.T) {
	seg := flightWithVariants(false) // qty 2, cost 1200
	view := ResolvePricing(seg, nil, false)
	assert.Equal(t, "($600.00/pax)", view.Primary.PerUnit)
}

func TestResolvePricing_PerUnitExplicitWins(t *testing.T) {
	seg := flightWithVariants(false)
	seg.PricePerUnit = 575
	view := ResolvePricing(seg, nil, false)
	assert.Equal(t, "($575.00/pax)", view.Primary.PerUnit)
}

func TestResolvePricing_HotelUnitIsRoom(t *testing.T) {
	seg := &models.TripSegment{
		SegmentID: "h1",
		Type:      models.SegmentHotel,
		Cost:      800,
		Currency:  "USD",
		Quantity:  2,
		Meta:      models.SegmentMeta{Hotel: &models.HotelMeta{HotelName: "The Savoy", RoomType: "Deluxe"}},
	}
	view := ResolvePricing(seg, nil, false)
	assert.Equal(t, "($400.00/room)", view.Primary.PerUnit)
	assert.Equal(t, "The Savoy - Deluxe", view.Primary.Label)
}

func TestVariantLabel_FallbacksWhenIdentityMissing(t *testing.T) {
	seg := &models.TripSegment{SegmentID: "s1", Type: models.SegmentActivity}
	v := &models.SegmentVariant{Label: "Private Guide", VariantType: models.VariantTypeUpgrade}
	assert.Equal(t, "Private Guide", VariantLabel(seg, v))

	seg.Title = "Louvre Tour"
	assert.Equal(t, "Louvre Tour - Private Guide", VariantLabel(seg, v))
}

func TestRefundText(t *testing.T) {
	tests := []struct {
		refundability string
		deadline      string
		want          string
	}{
		{models.RefundUnknown, "", ""},
		{"", "2024-05-01", ""},
		{models.RefundNone, "2024-05-01", "Non-refundable"},
		{models.RefundFull, "2024-05-01", "Refundable until 2024-05-01"},
		{models.RefundFull, "", "Refundable"},
		{models.RefundPartial, "2024-05-01", "Partial refund until 2024-05-01"},
		{models.RefundPartial, "", "Partial refund"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RefundText(tt.refundability, tt.deadline))
	}
}
