package itinerary

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyara/models"
)

func flightLeg(id, journeyID string, legNumber, sortOrder int) *models.TripSegment {
	return &models.TripSegment{
		SegmentID: id,
		Type:      models.SegmentFlight,
		JourneyID: journeyID,
		SortOrder: sortOrder,
		Meta:      models.SegmentMeta{Flight: &models.FlightMeta{LegNumber: legNumber}},
	}
}

func hotelSeg(id, propertyGroupID string, cost float64, sortOrder int) *models.TripSegment {
	return &models.TripSegment{
		SegmentID:       id,
		Type:            models.SegmentHotel,
		PropertyGroupID: propertyGroupID,
		Cost:            cost,
		SortOrder:       sortOrder,
		Meta:            models.SegmentMeta{Hotel: &models.HotelMeta{HotelName: "Hotel " + id}},
	}
}

func choiceSeg(id, choiceGroupID string, sortOrder int) *models.TripSegment {
	return &models.TripSegment{
		SegmentID:     id,
		Type:          models.SegmentActivity,
		ChoiceGroupID: choiceGroupID,
		SortOrder:     sortOrder,
	}
}

func itemIDs(it RenderItem) []string {
	var ids []string
	switch it.Kind {
	case ItemSegment:
		ids = append(ids, it.Segment.SegmentID)
	case ItemJourney:
		for _, l := range it.Legs {
			ids = append(ids, l.SegmentID)
		}
	case ItemChoiceGroup:
		for _, o := range it.Options {
			ids = append(ids, o.SegmentID)
		}
	case ItemPropertyGroup:
		for _, r := range it.Rooms {
			ids = append(ids, r.SegmentID)
		}
	}
	return ids
}

func TestResolveDayItems_JourneyGrouping(t *testing.T) {
	segs := []*models.TripSegment{
		flightLeg("leg2", "j1", 2, 1),
		{SegmentID: "lunch", Type: models.SegmentRestaurant, SortOrder: 2},
		flightLeg("leg1", "j1", 1, 3),
	}

	items := ResolveDayItems(segs)
	require.Len(t, items, 2)

	// journey opens at its first member's position, legs ordered by leg number
	assert.Equal(t, ItemJourney, items[0].Kind)
	assert.Equal(t, []string{"leg1", "leg2"}, itemIDs(items[0]))
	assert.Equal(t, ItemSegment, items[1].Kind)
	assert.Equal(t, "lunch", items[1].Segment.SegmentID)
}

func TestResolveDayItems_MissingLegNumberSortsFirst(t *testing.T) {
	segs := []*models.TripSegment{
		flightLeg("second", "j1", 1, 0),
		flightLeg("noleg", "j1", 0, 1),
	}

	items := ResolveDayItems(segs)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"noleg", "second"}, itemIDs(items[0]))
}

func TestResolveDayItems_SingletonJourneyFallsThrough(t *testing.T) {
	segs := []*models.TripSegment{flightLeg("solo", "j-orphan", 1, 0)}

	items := ResolveDayItems(segs)
	require.Len(t, items, 1)
	assert.Equal(t, ItemSegment, items[0].Kind)
	assert.Equal(t, "solo", items[0].Segment.SegmentID)
}

func TestResolveDayItems_JourneyRequiresFlightType(t *testing.T) {
	// two hotels sharing a journeyId never form a journey
	a := hotelSeg("h1", "", 100, 0)
	a.JourneyID = "j1"
	b := hotelSeg("h2", "", 100, 1)
	b.JourneyID = "j1"

	items := ResolveDayItems([]*models.TripSegment{a, b})
	require.Len(t, items, 2)
	assert.Equal(t, ItemSegment, items[0].Kind)
	assert.Equal(t, ItemSegment, items[1].Kind)
}

func TestResolveDayItems_ChoiceGroup(t *testing.T) {
	segs := []*models.TripSegment{
		choiceSeg("optB", "c1", 5),
		{SegmentID: "dinner", Type: models.SegmentRestaurant, SortOrder: 6},
		choiceSeg("optA", "c1", 1),
	}

	items := ResolveDayItems(segs)
	require.Len(t, items, 2)
	assert.Equal(t, ItemChoiceGroup, items[0].Kind)
	assert.Equal(t, []string{"optA", "optB"}, itemIDs(items[0]), "options sort by sortOrder")
	assert.Equal(t, "dinner", items[1].Segment.SegmentID)
}

func TestResolveDayItems_SingletonChoiceFallsThrough(t *testing.T) {
	items := ResolveDayItems([]*models.TripSegment{choiceSeg("only", "c-orphan", 0)})
	require.Len(t, items, 1)
	assert.Equal(t, ItemSegment, items[0].Kind)
}

func TestResolveDayItems_JourneyWinsOverChoiceGroup(t *testing.T) {
	legA := flightLeg("legA", "j1", 1, 0)
	legA.ChoiceGroupID = "c1"
	legB := flightLeg("legB", "j1", 2, 1)
	alt := choiceSeg("alt", "c1", 2)

	items := ResolveDayItems([]*models.TripSegment{legA, legB, alt})
	require.Len(t, items, 2)
	assert.Equal(t, ItemJourney, items[0].Kind)

	// the journey consumed legA, leaving the choice group a singleton
	assert.Equal(t, ItemSegment, items[1].Kind)
	assert.Equal(t, "alt", items[1].Segment.SegmentID)
}

func TestResolveDayItems_MembershipStableUnderPermutation(t *testing.T) {
	base := []*models.TripSegment{
		flightLeg("l1", "j1", 1, 0),
		flightLeg("l2", "j1", 2, 1),
		choiceSeg("o1", "c1", 2),
		choiceSeg("o2", "c1", 3),
		{SegmentID: "solo", Type: models.SegmentActivity, SortOrder: 4},
	}

	membership := func(items []RenderItem) map[string][]string {
		got := make(map[string][]string)
		for _, it := range items {
			ids := itemIDs(it)
			sort.Strings(ids)
			for _, id := range ids {
				got[id] = append([]string(nil), ids...)
			}
		}
		return got
	}

	want := membership(ResolveDayItems(base))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]*models.TripSegment(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, membership(ResolveDayItems(shuffled)))
	}
}

func TestSegmentsByDay(t *testing.T) {
	segs := []models.TripSegment{
		{SegmentID: "d2a", DayNumber: 2, SortOrder: 1},
		{SegmentID: "d1b", DayNumber: 1, SortOrder: 2},
		{SegmentID: "d1a", DayNumber: 1, SortOrder: 1},
	}

	byDay, days := SegmentsByDay(segs)
	assert.Equal(t, []int{1, 2}, days)
	require.Len(t, byDay[1], 2)
	assert.Equal(t, "d1a", byDay[1][0].SegmentID)
	assert.Equal(t, "d1b", byDay[1][1].SegmentID)
	require.Len(t, byDay[2], 1)
}

func TestResolvePropertyGroups(t *testing.T) {
	items := ResolveDayItems([]*models.TripSegment{
		hotelSeg("room1", "p1", 200, 0),
		{SegmentID: "taxi", Type: models.SegmentTransport, SortOrder: 1},
		hotelSeg("room2", "p1", 150, 2),
		hotelSeg("lone", "p2", 99, 3),
	})

	folded := ResolvePropertyGroups(items)
	require.Len(t, folded, 3)

	assert.Equal(t, ItemPropertyGroup, folded[0].Kind)
	assert.Equal(t, []string{"room1", "room2"}, itemIDs(folded[0]))
	assert.Equal(t, 350.0, PropertyTotal(folded[0].Rooms))

	assert.Equal(t, "taxi", folded[1].Segment.SegmentID)

	// p2 has one room only, stays a plain segment
	assert.Equal(t, ItemSegment, folded[2].Kind)
	assert.Equal(t, "lone", folded[2].Segment.SegmentID)
}
