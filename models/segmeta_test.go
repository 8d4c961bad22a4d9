package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSegmentMeta_FlightFallbackKeys(t *testing.T) {
	// old clients sent "from"/"to", new ones send full key names
	meta := ParseSegmentMeta(SegmentFlight, map[string]any{
		"from":        "jfk",
		"to":          "LHR",
		"flightNo":    "BA178",
		"cabin":       "business",
		"legNumber":   float64(2), // JSON numbers decode as float64
		"arrivalTime": "14:20",
	})

	require.NotNil(t, meta.Flight)
	assert.Equal(t, "JFK", meta.Flight.DepartureAirport)
	assert.Equal(t, "LHR", meta.Flight.ArrivalAirport)
	assert.Equal(t, "BA178", meta.Flight.FlightNumber)
	assert.Equal(t, 2, meta.Flight.LegNumber)
	assert.Equal(t, "14:20", meta.Flight.ArrivalLocal)
	assert.Nil(t, meta.Hotel)
}

func TestParseSegmentMeta_PreferredKeyWins(t *testing.T) {
	meta := ParseSegmentMeta(SegmentFlight, map[string]any{
		"departureAirport": "CDG",
		"from":             "ORY",
	})
	require.NotNil(t, meta.Flight)
	assert.Equal(t, "CDG", meta.Flight.DepartureAirport)
}

func TestParseSegmentMeta_HotelLegacyProperty(t *testing.T) {
	meta := ParseSegmentMeta(SegmentHotel, map[string]any{
		"property": "The Savoy",
		"room":     "Junior Suite",
		"board":    "Half board",
		"guests":   float64(2),
		"checkin":  "2024-06-01",
	})

	require.NotNil(t, meta.Hotel)
	assert.Equal(t, "The Savoy", meta.Hotel.HotelName)
	assert.Equal(t, "Junior Suite", meta.Hotel.RoomType)
	assert.Equal(t, "Half board", meta.Hotel.BoardBasis)
	assert.Equal(t, 2, meta.Hotel.Guests)
	assert.Equal(t, "2024-06-01", meta.Hotel.CheckIn)
}

func TestParseSegmentMeta_TransportProviderKeys(t *testing.T) {
	meta := ParseSegmentMeta(SegmentTransport, map[string]any{
		"mode":        "car",
		"company":     "Blacklane",
		"vehicleType": "Mercedes V-Class",
		"from":        "LHR Terminal 5",
		"to":          "The Savoy",
	})

	require.NotNil(t, meta.Transport)
	assert.Equal(t, "Blacklane", meta.Transport.Provider)
	assert.Equal(t, "Mercedes V-Class", meta.Transport.Vehicle)
	assert.Equal(t, "LHR Terminal 5", meta.Transport.Pickup)
	assert.Equal(t, "The Savoy", meta.Transport.Dropoff)
}

func TestParseSegmentMeta_CharterFlightSharesFlightShape(t *testing.T) {
	meta := ParseSegmentMeta(SegmentCharterFlight, map[string]any{"from": "TLS", "to": "FSC"})
	require.NotNil(t, meta.Flight)
	assert.Equal(t, "TLS", meta.Flight.DepartureAirport)
}

func TestParseSegmentMeta_NilAndUnknown(t *testing.T) {
	meta := ParseSegmentMeta(SegmentNote, nil)
	require.NotNil(t, meta.Note)
	assert.Equal(t, "", meta.Note.Text)

	unknown := ParseSegmentMeta("mystery", map[string]any{"x": 1})
	assert.Equal(t, SegmentMeta{}, unknown)
}

func TestParseSegmentMeta_NumericStrings(t *testing.T) {
	meta := ParseSegmentMeta(SegmentRestaurant, map[string]any{
		"name":      "Noma",
		"partySize": "4",
	})
	require.NotNil(t, meta.Restaurant)
	assert.Equal(t, 4, meta.Restaurant.PartySize)
}

func TestSelectedVariant_FirstMatchWins(t *testing.T) {
	variants := []SegmentVariant{
		{VariantID: "v1"},
		{VariantID: "v2", IsSelected: true},
		{VariantID: "v3", IsSelected: true},
	}
	sel := SelectedVariant(variants)
	require.NotNil(t, sel)
	assert.Equal(t, "v2", sel.VariantID)

	assert.Nil(t, SelectedVariant(nil))
	assert.Nil(t, SelectedVariant([]SegmentVariant{{VariantID: "v1"}}))
}
