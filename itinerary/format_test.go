package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"voyara/models"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234.5, "USD", "$1234.50"},
		{99, "EUR", "€99.00"},
		{50, "GBP", "£50.00"},
		{1500, "JPY", "¥1500.00"},
		{200, "CHF", "CHF 200.00"},
		{80, "sek", "SEK 80.00"},
		{42, "", "42.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.amount, tt.code))
	}
}

func TestPrimaryLabel_Flight(t *testing.T) {
	seg := &models.TripSegment{
		Type:     models.SegmentFlight,
		Quantity: 2,
		Meta: models.SegmentMeta{Flight: &models.FlightMeta{
			DepartureAirport: "JFK",
			ArrivalAirport:   "LHR",
			Stops:            "nonstop",
			Cabin:            "business",
		}},
	}
	assert.Equal(t, "JFK->LHR (nonstop, business, 2 passengers)", PrimaryLabel(seg))
}

func TestPrimaryLabel_FlightSparse(t *testing.T) {
	seg := &models.TripSegment{
		Type: models.SegmentFlight,
		Meta: models.SegmentMeta{Flight: &models.FlightMeta{ArrivalAirport: "LHR"}},
	}
	assert.Equal(t, "LHR", PrimaryLabel(seg))
}

func TestPrimaryLabel_Hotel(t *testing.T) {
	seg := &models.TripSegment{
		Type: models.SegmentHotel,
		Meta: models.SegmentMeta{Hotel: &models.HotelMeta{HotelName: "The Savoy", RoomType: "Junior Suite"}},
	}
	assert.Equal(t, "The Savoy - Junior Suite", PrimaryLabel(seg))
}

func TestPrimaryLabel_FallsBackToTitle(t *testing.T) {
	seg := &models.TripSegment{Type: models.SegmentActivity, Title: "Free morning"}
	assert.Equal(t, "Free morning", PrimaryLabel(seg))

	bare := &models.TripSegment{Type: models.SegmentTransport}
	assert.Equal(t, "Transport", PrimaryLabel(bare))
}

func TestSegmentSummary(t *testing.T) {
	flight := &models.TripSegment{
		Type: models.SegmentFlight,
		Meta: models.SegmentMeta{Flight: &models.FlightMeta{
			Airline:          "BA",
			FlightNumber:     "178",
			DepartureAirport: "JFK",
			ArrivalAirport:   "LHR",
		}},
	}
	assert.Equal(t, "Flight: BA 178 JFK->LHR", SegmentSummary(flight))

	hotel := &models.TripSegment{
		Type: models.SegmentHotel,
		Meta: models.SegmentMeta{Hotel: &models.HotelMeta{HotelName: "The Savoy"}},
	}
	assert.Equal(t, "Hotel: The Savoy", SegmentSummary(hotel))

	bare := &models.TripSegment{Type: models.SegmentNote}
	assert.Equal(t, "Note", SegmentSummary(bare))
}

func TestDescriptionLines(t *testing.T) {
	seg := &models.TripSegment{
		Type:               models.SegmentHotel,
		Cost:               420,
		Currency:           "USD",
		ConfirmationNumber: "ABC123",
		Meta: models.SegmentMeta{Hotel: &models.HotelMeta{
			HotelName: "The Savoy",
			CheckIn:   "2024-06-01",
			CheckOut:  "2024-06-04",
		}},
	}

	lines := DescriptionLines(seg)
	assert.Contains(t, lines, "Hotel: The Savoy")
	assert.Contains(t, lines, "Check-in: 2024-06-01")
	assert.Contains(t, lines, "Confirmation: ABC123")
	assert.Contains(t, lines, "Cost: $420.00")
	assert.NotContains(t, lines, "Room: ")
}

func TestDescriptionLines_EmptyMetaDegrades(t *testing.T) {
	seg := &models.TripSegment{Type: models.SegmentFlight}
	assert.Empty(t, DescriptionLines(seg))
	assert.Equal(t, "", DescriptionText(seg))
}

func TestDetailLines_EnrichedMeta(t *testing.T) {
	hotel := &models.TripSegment{
		Type: models.SegmentHotel,
		Meta: models.SegmentMeta{Hotel: &models.HotelMeta{
			HotelName:  "Aman Tokyo",
			BoardBasis: "Breakfast included",
			Guests:     2,
		}},
	}
	lines := DetailLines(hotel)
	assert.Contains(t, lines, "Board: Breakfast included")
	assert.Contains(t, lines, "Occupancy: 2 guests")

	transfer := &models.TripSegment{
		Type: models.SegmentTransport,
		Meta: models.SegmentMeta{Transport: &models.TransportMeta{
			Mode:     "car",
			Provider: "Blacklane",
			Vehicle:  "Mercedes V-Class",
		}},
	}
	assert.Contains(t, DetailLines(transfer), "Provider: Blacklane")
	assert.Contains(t, DetailLines(transfer), "Vehicle: Mercedes V-Class")
}

func TestLocation(t *testing.T) {
	flight := &models.TripSegment{
		Type: models.SegmentFlight,
		Meta: models.SegmentMeta{Flight: &models.FlightMeta{DepartureAirport: "JFK"}},
	}
	assert.Equal(t, "JFK", Location(flight))

	hotel := &models.TripSegment{
		Type: models.SegmentHotel,
		Meta: models.SegmentMeta{Hotel: &models.HotelMeta{HotelName: "The Savoy"}},
	}
	assert.Equal(t, "The Savoy", Location(hotel))

	assert.Equal(t, "", Location(&models.TripSegment{Type: models.SegmentNote}))
}

func TestPerUnitClause(t *testing.T) {
	assert.Equal(t, "", PerUnitClause(500, 0, 1, "pax", "USD"))
	assert.Equal(t, "($250.00/pax)", PerUnitClause(500, 0, 2, "pax", "USD"))
	assert.Equal(t, "($175.00/room)", PerUnitClause(500, 175, 2, "room", "USD"))
	assert.Equal(t, "", PerUnitClause(0, 0, 3, "pax", "USD"))
}
