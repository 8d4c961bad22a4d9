package itinerary

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"voyara/models"
)

// Layover classification flags.
const (
	LayoverTight  = "tight"
	LayoverNormal = "normal"
	LayoverLong   = "long"
)

// Layover describes the connection between two adjacent journey legs.
type Layover struct {
	Minutes       int    `json:"minutes"`
	Display       string `json:"display"`
	Flag          string `json:"flag"`
	AirportChange bool   `json:"airportChange"`
}

// Line renders the layover annotation shown under a journey leg, e.g.
// "Layover: 1h 30m (tight connection), airport change".
func (l *Layover) Line() string {
	line := "Layover: " + l.Display
	switch l.Flag {
	case LayoverTight:
		line += " (tight connection)"
	case LayoverLong:
		line += " (long layover)"
	}
	if l.AirportChange {
		line += ", airport change"
	}
	return line
}

var utcLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseUTC(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range utcLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CalculateLayover computes the gap between the previous leg's arrival and
// the next leg's departure. Returns nil when either instant is missing or
// unparseable, or when the gap is not positive (clock skew, bad data).
// Callers render "no layover line" for nil, it is not an error state.
func CalculateLayover(arrivalUTC, departureUTC, arrivalAirport, departureAirport string) *Layover {
	arr, ok := parseUTC(arrivalUTC)
	if !ok {
		return nil
	}
	dep, ok := parseUTC(departureUTC)
	if !ok {
		return nil
	}
	minutes := int(dep.Sub(arr) / time.Minute)
	if minutes <= 0 {
		return nil
	}

	flag := LayoverNormal
	switch {
	case minutes < 60:
		flag = LayoverTight
	case minutes > 240:
		flag = LayoverLong
	}

	h, m := minutes/60, minutes%60
	display := fmt.Sprintf("%dm", m)
	if h > 0 {
		display = fmt.Sprintf("%dh %dm", h, m)
	}

	return &Layover{
		Minutes:       minutes,
		Display:       display,
		Flag:          flag,
		AirportChange: arrivalAirport != "" && departureAirport != "" && arrivalAirport != departureAirport,
	}
}

// LayoverBetween applies CalculateLayover to two adjacent legs of a journey.
func LayoverBetween(prev, next *models.TripSegment) *Layover {
	if prev == nil || next == nil || prev.Meta.Flight == nil || next.Meta.Flight == nil {
		return nil
	}
	pf, nf := prev.Meta.Flight, next.Meta.Flight
	return CalculateLayover(pf.ArrivalTimeUTC, nf.DepartureTimeUTC, pf.ArrivalAirport, nf.DepartureAirport)
}

// IsRedEye reports whether a local time string falls in the overnight
// window (20:00 through 04:59). The string may carry a date prefix, e.g.
// "2024-06-01 22:30". Display hint only.
func IsRedEye(local string) bool {
	s := strings.TrimSpace(local)
	if s == "" {
		return false
	}
	if i := strings.IndexAny(s, "T "); i != -1 && strings.Contains(s[:i], "-") {
		s = s[i+1:]
	}
	if len(s) < 2 {
		return false
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil {
		h, err2 := strconv.Atoi(s[:1])
		if err2 != nil {
			return false
		}
		hour = h
	}
	return hour >= 20 || hour < 5
}
