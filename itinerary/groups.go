package itinerary

import (
	"sort"

	"voyara/models"
)

// Render item kinds produced by the day resolver.
const (
	ItemSegment       = "segment"
	ItemJourney       = "journey"
	ItemChoiceGroup   = "choiceGroup"
	ItemPropertyGroup = "propertyGroup"
)

// RenderItem is one displayable unit of an itinerary day: a standalone
// segment, a multi-leg journey, a set of mutually exclusive options, or
// (after ResolvePropertyGroups) a combined hotel stay. The day resolver
// itself never emits property groups; they only affect hotel display and
// cost roll-up, so targets that want them fold them in as a second pass.
type RenderItem struct {
	Kind    string                `json:"kind"`
	Segment *models.TripSegment   `json:"segment,omitempty"`
	Legs    []*models.TripSegment `json:"legs,omitempty"`
	Options []*models.TripSegment `json:"options,omitempty"`
	Rooms   []*models.TripSegment `json:"rooms,omitempty"`
}

// ResolveDayItems partitions one day's segments into render items in a
// single pass. Journey membership wins over choice-group membership; a
// group id shared by fewer than two segments degrades to standalone
// rendering. Output order follows the position of each group's first
// member in the input.
func ResolveDayItems(segments []*models.TripSegment) []RenderItem {
	journeys := make(map[string][]*models.TripSegment)
	choices := make(map[string][]*models.TripSegment)
	for _, s := range segments {
		if s.JourneyID != "" && models.IsFlightType(s.Type) {
			journeys[s.JourneyID] = append(journeys[s.JourneyID], s)
		}
		if s.ChoiceGroupID != "" {
			choices[s.ChoiceGroupID] = append(choices[s.ChoiceGroupID], s)
		}
	}

	inJourney := func(s *models.TripSegment) bool {
		return s.JourneyID != "" && models.IsFlightType(s.Type) && len(journeys[s.JourneyID]) >= 2
	}

	seenJourneys := make(map[string]bool)
	seenChoices := make(map[string]bool)
	items := make([]RenderItem, 0, len(segments))

	for _, s := range segments {
		if inJourney(s) {
			if seenJourneys[s.JourneyID] {
				continue
			}
			seenJourneys[s.JourneyID] = true
			legs := append([]*models.TripSegment(nil), journeys[s.JourneyID]...)
			sort.SliceStable(legs, func(i, j int) bool {
				return legs[i].LegNumber() < legs[j].LegNumber()
			})
			items = append(items, RenderItem{Kind: ItemJourney, Legs: legs})
			continue
		}

		if s.ChoiceGroupID != "" {
			// Members already consumed by a journey don't count toward
			// the group; fewer than two left means no group.
			var open []*models.TripSegment
			for _, m := range choices[s.ChoiceGroupID] {
				if !inJourney(m) {
					open = append(open, m)
				}
			}
			if len(open) >= 2 {
				if seenChoices[s.ChoiceGroupID] {
					continue
				}
				seenChoices[s.ChoiceGroupID] = true
				sort.SliceStable(open, func(i, j int) bool {
					return open[i].SortOrder < open[j].SortOrder
				})
				items = append(items, RenderItem{Kind: ItemChoiceGroup, Options: open})
				continue
			}
		}

		items = append(items, RenderItem{Kind: ItemSegment, Segment: s})
	}
	return items
}

// SegmentsByDay buckets a version's segments by day number, ordering each
// day by sortOrder. Returns the buckets plus the ascending day numbers.
func SegmentsByDay(segments []models.TripSegment) (map[int][]*models.TripSegment, []int) {
	byDay := make(map[int][]*models.TripSegment)
	for i := range segments {
		s := &segments[i]
		byDay[s.DayNumber] = append(byDay[s.DayNumber], s)
	}
	days := make([]int, 0, len(byDay))
	for day, list := range byDay {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].SortOrder < list[j].SortOrder
		})
		days = append(days, day)
	}
	sort.Ints(days)
	return byDay, days
}

func inPropertyGroup(it RenderItem) bool {
	return it.Kind == ItemSegment &&
		it.Segment.Type == models.SegmentHotel &&
		it.Segment.PropertyGroupID != ""
}

// ResolvePropertyGroups rewrites a day's render items so standalone hotel
// rooms sharing a propertyGroupId collapse into one property item at the
// first room's position. Singleton groups stay standalone, like every
// other singleton grouping.
func ResolvePropertyGroups(items []RenderItem) []RenderItem {
	members := make(map[string][]*models.TripSegment)
	for _, it := range items {
		if inPropertyGroup(it) {
			id := it.Segment.PropertyGroupID
			members[id] = append(members[id], it.Segment)
		}
	}

	seen := make(map[string]bool)
	out := make([]RenderItem, 0, len(items))
	for _, it := range items {
		if inPropertyGroup(it) && len(members[it.Segment.PropertyGroupID]) >= 2 {
			id := it.Segment.PropertyGroupID
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, RenderItem{Kind: ItemPropertyGroup, Rooms: members[id]})
			continue
		}
		out = append(out, it)
	}
	return out
}

// PropertyTotal sums the room costs of a combined stay.
func PropertyTotal(rooms []*models.TripSegment) float64 {
	var total float64
	for _, r := range rooms {
		total += r.Cost
	}
	return total
}
