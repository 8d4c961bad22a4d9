package exports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyara/models"
)

func documentFixture() DocumentData {
	trip := testTrip()
	trip.Destinations = []string{"Reykjavik", "Vik"}
	trip.EndDate = "2024-06-08"
	return DocumentData{
		Trip:    trip,
		Version: &models.TripVersion{VersionID: "ver1", Name: "Version 1", ShowPricing: true, Discount: 10, DiscountType: models.DiscountPercent},
		Client:  &models.Client{ClientID: "c1", Name: "Dana Whitfield"},
		Advisor: &models.Advisor{AdvisorID: "a1", Name: "Priya Shah", OrgName: "Northbound Travel", Email: "priya@northbound.example"},
		Segments: []models.TripSegment{
			{
				SegmentID: "room1", Type: models.SegmentHotel, DayNumber: 1, SortOrder: 1,
				PropertyGroupID: "p1", Cost: 200, Currency: "USD",
				Meta: models.SegmentMeta{Hotel: &models.HotelMeta{HotelName: "Fosshotel", RoomType: "Standard"}},
			},
			{
				SegmentID: "room2", Type: models.SegmentHotel, DayNumber: 1, SortOrder: 2,
				PropertyGroupID: "p1", Cost: 150, Currency: "USD",
				Meta: models.SegmentMeta{Hotel: &models.HotelMeta{HotelName: "Fosshotel", RoomType: "Family"}},
			},
		},
		ShareURL: "https://voyara.example/s/tok123",
	}
}

func TestBuildItineraryPDF_RendersDocument(t *testing.T) {
	out, err := BuildItineraryPDF(documentFixture())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF-", string(out[:5]))
	assert.Greater(t, len(out), 2000, "cover, day section and summary should produce a real document")
}

func TestBuildItineraryPDF_MissingPreconditions(t *testing.T) {
	data := documentFixture()
	data.Trip = nil
	_, err := BuildItineraryPDF(data)
	assert.Error(t, err)

	data = documentFixture()
	data.Version = nil
	_, err = BuildItineraryPDF(data)
	assert.Error(t, err)
}

func TestBuildItineraryPDF_ToleratesMalformedSegments(t *testing.T) {
	data := documentFixture()
	data.Segments = append(data.Segments,
		// flight claiming to be one without any metadata
		models.TripSegment{SegmentID: "broken1", Type: models.SegmentFlight, DayNumber: 2},
		// nonsense day and type still render a section
		models.TripSegment{SegmentID: "broken2", Type: "mystery", DayNumber: -3},
	)

	out, err := BuildItineraryPDF(data)
	require.NoError(t, err, "one bad segment must never fail the document")
	assert.NotEmpty(t, out)
}

func TestBuildItineraryPDF_JourneyAndChoices(t *testing.T) {
	data := documentFixture()
	data.Segments = []models.TripSegment{
		{
			SegmentID: "leg1", Type: models.SegmentFlight, DayNumber: 1, SortOrder: 1,
			JourneyID: "j1", Cost: 450, Currency: "USD",
			Meta: models.SegmentMeta{Flight: &models.FlightMeta{
				DepartureAirport: "JFK", ArrivalAirport: "KEF", LegNumber: 1,
				ArrivalTimeUTC: "2024-06-01T20:00:00Z", DepartureLocal: "21:40",
			}},
		},
		{
			SegmentID: "leg2", Type: models.SegmentFlight, DayNumber: 1, SortOrder: 2,
			JourneyID: "j1", Cost: 210, Currency: "USD",
			Meta: models.SegmentMeta{Flight: &models.FlightMeta{
				DepartureAirport: "KEF", ArrivalAirport: "CDG", LegNumber: 2,
				DepartureTimeUTC: "2024-06-01T21:10:00Z",
			}},
		},
		{
			SegmentID: "optA", Type: models.SegmentActivity, DayNumber: 2, SortOrder: 1,
			ChoiceGroupID: "c1", Cost: 120, Currency: "USD",
			Meta: models.SegmentMeta{Activity: &models.ActivityMeta{Name: "Glacier Hike"}},
		},
		{
			SegmentID: "optB", Type: models.SegmentActivity, DayNumber: 2, SortOrder: 2,
			ChoiceGroupID: "c1", Cost: 95, Currency: "USD",
			Meta: models.SegmentMeta{Activity: &models.ActivityMeta{Name: "Lava Caving"}},
		},
	}

	out, err := BuildItineraryPDF(data)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestBuildItineraryPDF_ApprovedHidesOptions(t *testing.T) {
	data := documentFixture()
	data.Trip.ApprovedVersionID = "ver1"
	data.Segments[0].HasVariants = true
	data.Variants = map[string][]models.SegmentVariant{
		"room1": {{VariantID: "v1", Label: "Sea View", Cost: 260}},
	}

	out, err := BuildItineraryPDF(data)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestBuildItineraryPDF_NoStartDateStillRendersDayHeaders(t *testing.T) {
	data := documentFixture()
	data.Trip.StartDate = ""

	out, err := BuildItineraryPDF(data)
	require.NoError(t, err, "the document renders Day N headers without calendar dates")
	assert.NotEmpty(t, out)
}
