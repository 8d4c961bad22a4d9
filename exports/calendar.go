package exports

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"voyara/itinerary"
	"voyara/models"
)

var errMissingTripData = errors.New("trip with start date and version are required")

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

func parseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
		}
	}
	return 0, false
}

// escapeText applies calendar text escaping: backslash, semicolon and
// comma are backslash-escaped, newlines become the literal \n sequence.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func fmtDate(t time.Time) string     { return t.Format("20060102") }
func fmtDateTime(t time.Time) string { return t.Format("20060102T150405") }

// BuildICS renders one version's segments as an iCalendar feed: one
// VEVENT per segment, categories tagged with the segment type. Events
// land on tripStart + (dayNumber - 1); a lone start time gets a one-hour
// duration, no times at all becomes an all-day entry, and an end time
// behind the start rolls over past midnight.
func BuildICS(trip *models.Trip, version *models.TripVersion, segments []models.TripSegment) (string, error) {
	if trip == nil || version == nil {
		return "", errMissingTripData
	}
	start, err := time.Parse("2006-01-02", trip.StartDate)
	if err != nil {
		return "", errMissingTripData
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//Voyara//Itinerary//EN")
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	if trip.Title != "" {
		line("X-WR-CALNAME:" + escapeText(trip.Title))
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")

	for i := range segments {
		seg := &segments[i]
		day := start.AddDate(0, 0, seg.DayNumber-1)

		line("BEGIN:VEVENT")
		line("UID:" + seg.SegmentID + "@voyara")
		line("DTSTAMP:" + stamp)
		line("SUMMARY:" + escapeText(itinerary.SegmentSummary(seg)))

		startClock, hasStart := parseClock(seg.StartTime)
		endClock, hasEnd := parseClock(seg.EndTime)
		switch {
		case hasStart && hasEnd:
			from := day.Add(startClock)
			to := day.Add(endClock)
			if !to.After(from) {
				to = to.AddDate(0, 0, 1)
			}
			line("DTSTART:" + fmtDateTime(from))
			line("DTEND:" + fmtDateTime(to))
		case hasStart:
			from := day.Add(startClock)
			line("DTSTART:" + fmtDateTime(from))
			line("DTEND:" + fmtDateTime(from.Add(time.Hour)))
		default:
			// all-day, exclusive end
			line("DTSTART;VALUE=DATE:" + fmtDate(day))
			line("DTEND;VALUE=DATE:" + fmtDate(day.AddDate(0, 0, 1)))
		}

		if desc := itinerary.DescriptionText(seg); desc != "" {
			line("DESCRIPTION:" + escapeText(desc))
		}
		if loc := itinerary.Location(seg); loc != "" {
			line("LOCATION:" + escapeText(loc))
		}
		line("CATEGORIES:" + strings.ToUpper(seg.Type))
		line("END:VEVENT")
	}

	line("END:VCALENDAR")
	return b.String(), nil
}

// ICSFileName derives the download filename for a trip's feed.
func ICSFileName(trip *models.Trip) string {
	name := strings.TrimSpace(trip.Title)
	if name == "" {
		name = trip.TripID
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, name)
	return fmt.Sprintf("%s.ics", strings.Trim(name, "-"))
}
