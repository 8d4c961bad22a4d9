package exports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyara/models"
)

func testTrip() *models.Trip {
	return &models.Trip{
		TripID:    "trip1",
		Title:     "Iceland Adventure",
		StartDate: "2024-06-01",
		Currency:  "USD",
	}
}

func TestBuildICS_TimedEvent(t *testing.T) {
	segments := []models.TripSegment{{
		SegmentID: "seg1",
		Type:      models.SegmentFlight,
		DayNumber: 1,
		StartTime: "09:30",
		EndTime:   "14:45",
		Meta: models.SegmentMeta{Flight: &models.FlightMeta{
			Airline:          "FI",
			FlightNumber:     "614",
			DepartureAirport: "JFK",
			ArrivalAirport:   "KEF",
		}},
	}}

	ics, err := BuildICS(testTrip(), &models.TripVersion{VersionID: "ver1"}, segments)
	require.NoError(t, err)

	assert.Contains(t, ics, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, ics, "UID:seg1@voyara\r\n")
	assert.Contains(t, ics, "DTSTART:20240601T093000\r\n")
	assert.Contains(t, ics, "DTEND:20240601T144500\r\n")
	assert.Contains(t, ics, "CATEGORIES:FLIGHT\r\n")
	assert.Contains(t, ics, "LOCATION:JFK\r\n")
	assert.Contains(t, ics, "SUMMARY:Flight: FI 614 JFK->KEF\r\n")
}

func TestBuildICS_AllDayFallback(t *testing.T) {
	segments := []models.TripSegment{{
		SegmentID: "seg2",
		Type:      models.SegmentHotel,
		DayNumber: 2,
		Meta:      models.SegmentMeta{Hotel: &models.HotelMeta{HotelName: "Fosshotel"}},
	}}

	ics, err := BuildICS(testTrip(), &models.TripVersion{VersionID: "ver1"}, segments)
	require.NoError(t, err)

	// day 2 of a 2024-06-01 trip is 2024-06-02; all-day end is exclusive
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20240602\r\n")
	assert.Contains(t, ics, "DTEND;VALUE=DATE:20240603\r\n")
}

func TestBuildICS_StartOnlyGetsOneHour(t *testing.T) {
	segments := []models.TripSegment{{
		SegmentID: "seg3",
		Type:      models.SegmentRestaurant,
		DayNumber: 1,
		StartTime: "19:00",
	}}

	ics, err := BuildICS(testTrip(), &models.TripVersion{VersionID: "ver1"}, segments)
	require.NoError(t, err)
	assert.Contains(t, ics, "DTSTART:20240601T190000\r\n")
	assert.Contains(t, ics, "DTEND:20240601T200000\r\n")
}

func TestBuildICS_MidnightRollover(t *testing.T) {
	segments := []models.TripSegment{{
		SegmentID: "seg4",
		Type:      models.SegmentFlight,
		DayNumber: 1,
		StartTime: "22:30",
		EndTime:   "06:15",
	}}

	ics, err := BuildICS(testTrip(), &models.TripVersion{VersionID: "ver1"}, segments)
	require.NoError(t, err)
	assert.Contains(t, ics, "DTSTART:20240601T223000\r\n")
	assert.Contains(t, ics, "DTEND:20240602T061500\r\n")
}

func TestBuildICS_EscapesText(t *testing.T) {
	segments := []models.TripSegment{{
		SegmentID: "seg5",
		Type:      models.SegmentNote,
		DayNumber: 1,
		Title:     "Pack; swimsuit, towel",
		Notes:     "Line one\nLine two",
	}}

	ics, err := BuildICS(testTrip(), &models.TripVersion{VersionID: "ver1"}, segments)
	require.NoError(t, err)
	assert.Contains(t, ics, "SUMMARY:Note: Pack\\; swimsuit\\, towel\r\n")
	assert.Contains(t, ics, "Line one\\nLine two")
	assert.NotContains(t, strings.ReplaceAll(ics, "\r\n", ""), "Line one\nLine two")
}

func TestBuildICS_MissingPreconditions(t *testing.T) {
	_, err := BuildICS(nil, &models.TripVersion{}, nil)
	assert.Error(t, err)

	_, err = BuildICS(testTrip(), nil, nil)
	assert.Error(t, err)

	noDate := testTrip()
	noDate.StartDate = ""
	_, err = BuildICS(noDate, &models.TripVersion{}, nil)
	assert.Error(t, err)
}

func TestICSFileName(t *testing.T) {
	assert.Equal(t, "Iceland-Adventure.ics", ICSFileName(testTrip()))
	assert.Equal(t, "trip1.ics", ICSFileName(&models.Trip{TripID: "trip1"}))
}
