package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyara/models"
)

func TestCalculateLayover_Classification(t *testing.T) {
	tests := []struct {
		name    string
		arrival string
		depart  string
		minutes int
		flag    string
		display string
	}{
		{"tight 45m", "2024-06-01T10:00:00Z", "2024-06-01T10:45:00Z", 45, LayoverTight, "45m"},
		{"tight upper bound", "2024-06-01T10:00:00Z", "2024-06-01T10:59:00Z", 59, LayoverTight, "59m"},
		{"normal lower bound", "2024-06-01T10:00:00Z", "2024-06-01T11:00:00Z", 60, LayoverNormal, "1h 0m"},
		{"normal 90m", "2024-06-01T10:00:00Z", "2024-06-01T11:30:00Z", 90, LayoverNormal, "1h 30m"},
		{"normal upper bound", "2024-06-01T10:00:00Z", "2024-06-01T14:00:00Z", 240, LayoverNormal, "4h 0m"},
		{"long", "2024-06-01T10:00:00Z", "2024-06-01T14:01:00Z", 241, LayoverLong, "4h 1m"},
		{"long overnight", "2024-06-01T22:00:00Z", "2024-06-02T08:30:00Z", 630, LayoverLong, "10h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lay := CalculateLayover(tt.arrival, tt.depart, "LHR", "LHR")
			require.NotNil(t, lay)
			assert.Equal(t, tt.minutes, lay.Minutes)
			assert.Equal(t, tt.flag, lay.Flag)
			assert.Equal(t, tt.display, lay.Display)
			assert.False(t, lay.AirportChange)
		})
	}
}

func TestCalculateLayover_BadInput(t *testing.T) {
	// departure before or equal to arrival is bad data, not an error
	assert.Nil(t, CalculateLayover("2024-06-01T10:00:00Z", "2024-06-01T10:00:00Z", "LHR", "LHR"))
	assert.Nil(t, CalculateLayover("2024-06-01T10:00:00Z", "2024-06-01T09:00:00Z", "LHR", "LHR"))
	assert.Nil(t, CalculateLayover("", "2024-06-01T10:00:00Z", "LHR", "LHR"))
	assert.Nil(t, CalculateLayover("2024-06-01T10:00:00Z", "", "LHR", "LHR"))
	assert.Nil(t, CalculateLayover("not a time", "2024-06-01T10:00:00Z", "LHR", "LHR"))
}

func TestCalculateLayover_AirportChange(t *testing.T) {
	lay := CalculateLayover("2024-06-01T10:00:00Z", "2024-06-01T12:00:00Z", "LGW", "LHR")
	require.NotNil(t, lay)
	assert.True(t, lay.AirportChange)

	// missing codes never flag a change
	lay = CalculateLayover("2024-06-01T10:00:00Z", "2024-06-01T12:00:00Z", "", "LHR")
	require.NotNil(t, lay)
	assert.False(t, lay.AirportChange)

	lay = CalculateLayover("2024-06-01T10:00:00Z", "2024-06-01T12:00:00Z", "LGW", "")
	require.NotNil(t, lay)
	assert.False(t, lay.AirportChange)
}

func TestCalculateLayover_AcceptsPlainTimestamps(t *testing.T) {
	lay := CalculateLayover("2024-06-01 10:00", "2024-06-01 11:15", "JFK", "JFK")
	require.NotNil(t, lay)
	assert.Equal(t, 75, lay.Minutes)
	assert.Equal(t, LayoverNormal, lay.Flag)
}

func TestLayoverBetween(t *testing.T) {
	prev := &models.TripSegment{
		Type: models.SegmentFlight,
		Meta: models.SegmentMeta{Flight: &models.FlightMeta{
			ArrivalTimeUTC: "2024-06-01T14:00:00Z",
			ArrivalAirport: "KEF",
		}},
	}
	next := &models.TripSegment{
		Type: models.SegmentFlight,
		Meta: models.SegmentMeta{Flight: &models.FlightMeta{
			DepartureTimeUTC: "2024-06-01T14:50:00Z",
			DepartureAirport: "KEF",
		}},
	}

	lay := LayoverBetween(prev, next)
	require.NotNil(t, lay)
	assert.Equal(t, 50, lay.Minutes)
	assert.Equal(t, LayoverTight, lay.Flag)

	assert.Nil(t, LayoverBetween(nil, next))
	assert.Nil(t, LayoverBetween(prev, &models.TripSegment{Type: models.SegmentHotel}))
}

func TestIsRedEye(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"22:30", true},
		{"20:00", true},
		{"04:59", true},
		{"00:15", true},
		{"05:00", false},
		{"12:00", false},
		{"19:59", false},
		{"2024-06-01 23:10", true},
		{"2024-06-01T06:30", false},
		{"9:30", false},
		{"", false},
		{"n/a", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRedEye(tt.input))
		})
	}
}
