package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyara/models"
)

func TestComputeTotals_PercentDiscount(t *testing.T) {
	// two rooms of one stay: 200 + 150, 10% off
	version := &models.TripVersion{
		VersionID:    "ver1",
		ShowPricing:  true,
		Discount:     10,
		DiscountType: models.DiscountPercent,
	}
	segments := []models.TripSegment{
		{SegmentID: "room1", Type: models.SegmentHotel, PropertyGroupID: "p1", Cost: 200},
		{SegmentID: "room2", Type: models.SegmentHotel, PropertyGroupID: "p1", Cost: 150},
	}

	sum := ComputeTotals(version, segments, nil, false, "USD")
	require.NotNil(t, sum)
	assert.Equal(t, 350.0, sum.Subtotal)
	assert.Equal(t, 35.0, sum.DiscountValue)
	assert.Equal(t, 315.0, sum.Total)
	assert.Equal(t, "Discount (10%)", sum.DiscountLabel)
	assert.Equal(t, "USD", sum.Currency)
}

func TestComputeTotals_FixedDiscount(t *testing.T) {
	version := &models.TripVersion{VersionID: "ver1", Discount: 100, DiscountType: models.DiscountFixed}
	segments := []models.TripSegment{{SegmentID: "a", Cost: 600}}

	sum := ComputeTotals(version, segments, nil, false, "USD")
	require.NotNil(t, sum)
	assert.Equal(t, 600.0, sum.Subtotal)
	assert.Equal(t, 100.0, sum.DiscountValue)
	assert.Equal(t, 500.0, sum.Total)
	assert.Equal(t, "Discount", sum.DiscountLabel)
}

func TestComputeTotals_DiscountNeverGoesNegative(t *testing.T) {
	version := &models.TripVersion{VersionID: "ver1", Discount: 900, DiscountType: models.DiscountFixed}
	segments := []models.TripSegment{{SegmentID: "a", Cost: 250}}

	sum := ComputeTotals(version, segments, nil, false, "USD")
	require.NotNil(t, sum)
	assert.Equal(t, 250.0, sum.Subtotal)
	assert.Equal(t, 0.0, sum.Total)
}

func TestComputeTotals_CustomDiscountLabel(t *testing.T) {
	version := &models.TripVersion{
		VersionID:     "ver1",
		Discount:      15,
		DiscountType:  models.DiscountPercent,
		DiscountLabel: "Loyalty Credit",
	}
	segments := []models.TripSegment{{SegmentID: "a", Cost: 1000}}

	sum := ComputeTotals(version, segments, nil, false, "USD")
	require.NotNil(t, sum)
	assert.Equal(t, "Loyalty Credit", sum.DiscountLabel)
	assert.Equal(t, 150.0, sum.DiscountValue)
}

func TestComputeTotals_NoPricedSegments(t *testing.T) {
	version := &models.TripVersion{VersionID: "ver1"}
	segments := []models.TripSegment{
		{SegmentID: "note", Type: models.SegmentNote},
		{SegmentID: "walk", Type: models.SegmentActivity},
	}

	assert.Nil(t, ComputeTotals(version, segments, nil, false, "USD"))
	assert.Nil(t, ComputeTotals(version, nil, nil, false, "USD"))
}

func TestComputeTotals_ChoiceGroupExclusion(t *testing.T) {
	version := &models.TripVersion{VersionID: "ver1"}
	segments := []models.TripSegment{
		{SegmentID: "optA", Type: models.SegmentFlight, ChoiceGroupID: "c1", Cost: 500, IsChoiceSelected: true},
		{SegmentID: "optB", Type: models.SegmentFlight, ChoiceGroupID: "c1", Cost: 700},
	}

	sum := ComputeTotals(version, segments, nil, false, "USD")
	require.NotNil(t, sum)
	assert.Equal(t, 500.0, sum.Subtotal, "unchosen alternative must not count")
	assert.Equal(t, 500.0, sum.Total)
}

func TestComputeTotals_ApprovedChoiceGroupStillCollapses(t *testing.T) {
	// approval finalizes the pick; the passed-over option never comes back
	version := &models.TripVersion{VersionID: "ver1"}
	segments := []models.TripSegment{
		{SegmentID: "optA", ChoiceGroupID: "c1", Cost: 500, IsChoiceSelected: true},
		{SegmentID: "optB", ChoiceGroupID: "c1", Cost: 700},
	}

	sum := ComputeTotals(version, segments, nil, true, "USD")
	require.NotNil(t, sum)
	assert.Equal(t, 500.0, sum.Subtotal)
}

func TestComputeTotals_OpenChoiceGroupCountsAllMembers(t *testing.T) {
	// no member chosen yet: nothing is excluded
	version := &models.TripVersion{VersionID: "ver1"}
	segments := []models.TripSegment{
		{SegmentID: "optA", ChoiceGroupID: "c1", Cost: 500},
		{SegmentID: "optB", ChoiceGroupID: "c1", Cost: 700},
	}

	sum := ComputeTotals(version, segments, nil, false, "USD")
	require.NotNil(t, sum)
	assert.Equal(t, 1200.0, sum.Subtotal)
}

func TestComputeTotals_ApprovedUsesSelectedVariant(t *testing.T) {
	version := &models.TripVersion{VersionID: "ver1"}
	segments := []models.TripSegment{
		{SegmentID: "s1", Cost: 1200, HasVariants: true},
		{SegmentID: "s2", Cost: 300},
	}
	variants := map[string][]models.SegmentVariant{
		"s1": {
			{VariantID: "v1", Cost: 3400, IsSelected: true},
			{VariantID: "v2", Cost: 1900},
		},
	}

	sum := ComputeTotals(version, segments, variants, true, "USD")
	require.NotNil(t, sum)
	assert.Equal(t, 3700.0, sum.Subtotal, "selected variant replaces the segment's own cost")
}

func TestComputeTotals_UnapprovedIgnoresVariantCosts(t *testing.T) {
	version := &models.TripVersion{VersionID: "ver1"}
	segments := []models.TripSegment{{SegmentID: "s1", Cost: 1200, HasVariants: true}}
	variants := map[string][]models.SegmentVariant{
		"s1": {{VariantID: "v1", Cost: 3400, IsSelected: true}},
	}

	sum := ComputeTotals(version, segments, variants, false, "USD")
	require.NotNil(t, sum)
	assert.Equal(t, 1200.0, sum.Subtotal)
}

func TestComputeTotals_PercentRounding(t *testing.T) {
	version := &models.TripVersion{VersionID: "ver1", Discount: 15, DiscountType: models.DiscountPercent}
	segments := []models.TripSegment{{SegmentID: "a", Cost: 333}}

	sum := ComputeTotals(version, segments, nil, false, "USD")
	require.NotNil(t, sum)
	// 333 * 0.15 = 49.95, rounded to 50
	assert.Equal(t, 50.0, sum.DiscountValue)
	assert.Equal(t, 283.0, sum.Total)
}
