package itinerary

import (
	"fmt"
	"strings"

	"voyara/models"
)

// All segment-detail formatting lives here so the calendar and document
// emitters cannot drift apart.

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatMoney renders an amount with its currency symbol. Codes without a
// known symbol fall back to "{CODE} {amount}"; an empty code renders the
// bare amount.
func FormatMoney(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	if sym, ok := currencySymbols[code]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	return fmt.Sprintf("%s %.2f", code, amount)
}

func typeTag(t string) string {
	switch t {
	case models.SegmentFlight:
		return "Flight"
	case models.SegmentCharter:
		return "Charter"
	case models.SegmentCharterFlight:
		return "Charter Flight"
	case models.SegmentHotel:
		return "Hotel"
	case models.SegmentTransport:
		return "Transport"
	case models.SegmentRestaurant:
		return "Restaurant"
	case models.SegmentActivity:
		return "Activity"
	case models.SegmentNote:
		return "Note"
	}
	return "Segment"
}

// FlightRoute renders "JFK->LHR", degrading to whichever code is present.
func FlightRoute(f *models.FlightMeta) string {
	if f == nil {
		return ""
	}
	switch {
	case f.DepartureAirport != "" && f.ArrivalAirport != "":
		return f.DepartureAirport + "->" + f.ArrivalAirport
	case f.DepartureAirport != "":
		return f.DepartureAirport
	default:
		return f.ArrivalAirport
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// JourneyTitle is the header line for a multi-leg journey, end to end:
// "Journey: JFK->CDG (2 legs)".
func JourneyTitle(legs []*models.TripSegment) string {
	var first, last *models.FlightMeta
	for _, l := range legs {
		if l.Meta.Flight != nil {
			if first == nil {
				first = l.Meta.Flight
			}
			last = l.Meta.Flight
		}
	}
	if first != nil && last != nil && first.DepartureAirport != "" && last.ArrivalAirport != "" {
		return fmt.Sprintf("Journey: %s->%s (%d legs)", first.DepartureAirport, last.ArrivalAirport, len(legs))
	}
	return fmt.Sprintf("Journey (%d legs)", len(legs))
}

// SegmentIdentity is the short name of the segment's base booking: the
// route for flights, the property for hotels, the venue otherwise.
func SegmentIdentity(seg *models.TripSegment) string {
	m := seg.Meta
	switch {
	case m.Flight != nil:
		if r := FlightRoute(m.Flight); r != "" {
			return r
		}
	case m.Hotel != nil:
		if m.Hotel.HotelName != "" {
			return m.Hotel.HotelName
		}
	case m.Restaurant != nil:
		if m.Restaurant.Name != "" {
			return m.Restaurant.Name
		}
	case m.Activity != nil:
		if m.Activity.Name != "" {
			return m.Activity.Name
		}
	}
	return seg.Title
}

// PrimaryLabel renders the segment's own base booking as one line, e.g.
// "JFK->LHR (nonstop, business, 2 passengers)" or "The Savoy - Junior
// Suite". Missing fields are omitted rather than printed empty.
func PrimaryLabel(seg *models.TripSegment) string {
	m := seg.Meta
	switch {
	case m.Flight != nil:
		f := m.Flight
		head := FlightRoute(f)
		if head == "" {
			head = seg.Title
		}
		var details []string
		if f.Stops != "" {
			details = append(details, f.Stops)
		}
		if f.Cabin != "" {
			details = append(details, f.Cabin)
		}
		if seg.Quantity > 0 {
			details = append(details, plural(seg.Quantity, "passenger"))
		}
		if head == "" {
			head = typeTag(seg.Type)
		}
		if len(details) > 0 {
			return fmt.Sprintf("%s (%s)", head, strings.Join(details, ", "))
		}
		return head
	case m.Hotel != nil:
		h := m.Hotel
		switch {
		case h.HotelName != "" && h.RoomType != "":
			return h.HotelName + " - " + h.RoomType
		case h.HotelName != "":
			return h.HotelName
		case h.RoomType != "":
			return h.RoomType
		}
	case m.Restaurant != nil && m.Restaurant.Name != "":
		return m.Restaurant.Name
	case m.Activity != nil && m.Activity.Name != "":
		return m.Activity.Name
	case m.Transport != nil:
		t := m.Transport
		if t.Pickup != "" && t.Dropoff != "" {
			if t.Mode != "" {
				return fmt.Sprintf("%s: %s to %s", t.Mode, t.Pickup, t.Dropoff)
			}
			return fmt.Sprintf("%s to %s", t.Pickup, t.Dropoff)
		}
		if t.Mode != "" {
			return t.Mode
		}
	case m.Note != nil && seg.Title == "" && m.Note.Text != "":
		return m.Note.Text
	}
	if seg.Title != "" {
		return seg.Title
	}
	return typeTag(seg.Type)
}

// SegmentSummary is the type-tagged one-liner used as a calendar event
// summary, e.g. "Flight: BA 178 JFK->LHR".
func SegmentSummary(seg *models.TripSegment) string {
	tag := typeTag(seg.Type)
	var body string
	if f := seg.Meta.Flight; f != nil {
		parts := make([]string, 0, 3)
		if f.Airline != "" {
			parts = append(parts, f.Airline)
		}
		if f.FlightNumber != "" {
			parts = append(parts, f.FlightNumber)
		}
		if r := FlightRoute(f); r != "" {
			parts = append(parts, r)
		}
		body = strings.Join(parts, " ")
	} else {
		body = SegmentIdentity(seg)
	}
	if body == "" {
		body = seg.Title
	}
	if body == "" {
		return tag
	}
	return tag + ": " + body
}

// DetailLines collects the type-specific detail lines shown in calendar
// descriptions and document body blocks, without any price information.
// Absent fields yield no line at all.
func DetailLines(seg *models.TripSegment) []string {
	var lines []string
	add := func(label, val string) {
		if val != "" {
			lines = append(lines, label+": "+val)
		}
	}

	m := seg.Meta
	switch {
	case m.Flight != nil:
		f := m.Flight
		add("Airline", strings.TrimSpace(f.Airline+" "+f.FlightNumber))
		add("Route", FlightRoute(f))
		add("Departs", f.DepartureLocal)
		add("Arrives", f.ArrivalLocal)
		add("Cabin", f.Cabin)
		add("Aircraft", f.Aircraft)
	case m.Hotel != nil:
		h := m.Hotel
		add("Hotel", h.HotelName)
		add("Room", h.RoomType)
		add("Board", h.BoardBasis)
		if h.Guests > 0 {
			add("Occupancy", plural(h.Guests, "guest"))
		}
		add("Check-in", h.CheckIn)
		add("Check-out", h.CheckOut)
		add("Address", h.Address)
	case m.Restaurant != nil:
		r := m.Restaurant
		add("Restaurant", r.Name)
		add("Cuisine", r.Cuisine)
		add("Reservation", r.ReservationTime)
		if r.PartySize > 0 {
			add("Party", plural(r.PartySize, "guest"))
		}
		add("Dress code", r.DressCode)
		add("Address", r.Address)
	case m.Activity != nil:
		a := m.Activity
		add("Activity", a.Name)
		add("Operator", a.Operator)
		add("Duration", a.Duration)
		add("Difficulty", a.Difficulty)
		add("Address", a.Address)
	case m.Transport != nil:
		t := m.Transport
		add("Mode", t.Mode)
		add("Provider", t.Provider)
		add("Vehicle", t.Vehicle)
		add("Pickup", t.Pickup)
		add("Dropoff", t.Dropoff)
	case m.Note != nil:
		if m.Note.Text != "" {
			lines = append(lines, m.Note.Text)
		}
	}

	add("Confirmation", seg.ConfirmationNumber)
	add("Notes", seg.Notes)
	return lines
}

// DescriptionLines is DetailLines plus the cost line, as shown in
// calendar event descriptions.
func DescriptionLines(seg *models.TripSegment) []string {
	lines := DetailLines(seg)
	if seg.Cost > 0 {
		lines = append(lines, "Cost: "+FormatMoney(seg.Cost, seg.Currency))
	}
	return lines
}

// Location is the single place string attached to a calendar event.
func Location(seg *models.TripSegment) string {
	m := seg.Meta
	switch {
	case m.Flight != nil:
		return m.Flight.DepartureAirport
	case m.Hotel != nil:
		if m.Hotel.Address != "" {
			return m.Hotel.Address
		}
		return m.Hotel.HotelName
	case m.Restaurant != nil:
		if m.Restaurant.Address != "" {
			return m.Restaurant.Address
		}
		return m.Restaurant.Name
	case m.Activity != nil:
		if m.Activity.Address != "" {
			return m.Activity.Address
		}
		return m.Activity.Name
	case m.Transport != nil:
		return m.Transport.Pickup
	}
	return ""
}

// UnitLabel names what one unit of a segment's price buys.
func UnitLabel(segType string) string {
	if segType == models.SegmentHotel {
		return "room"
	}
	return "pax"
}

// PerUnitClause renders a "($175.00/room)" suffix for multi-unit prices.
// pricePerUnit wins when set; otherwise the unit price is derived from
// cost and quantity. Empty when quantity is 1 or nothing is derivable.
func PerUnitClause(cost, pricePerUnit float64, qty int, unit, currency string) string {
	if qty <= 1 {
		return ""
	}
	per := pricePerUnit
	if per <= 0 {
		if cost <= 0 {
			return ""
		}
		per = cost / float64(qty)
	}
	return fmt.Sprintf("(%s/%s)", FormatMoney(per, currency), unit)
}

// RefundText renders refund terms for display. Unknown refundability
// yields no text; a missing deadline drops the date clause.
func RefundText(refundability, deadline string) string {
	switch refundability {
	case models.RefundNone:
		return "Non-refundable"
	case models.RefundFull:
		if deadline != "" {
			return "Refundable until " + deadline
		}
		return "Refundable"
	case models.RefundPartial:
		if deadline != "" {
			return "Partial refund until " + deadline
		}
		return "Partial refund"
	}
	return ""
}

// DescriptionText joins the detail lines for calendar descriptions.
func DescriptionText(seg *models.TripSegment) string {
	return strings.Join(DescriptionLines(seg), "\n")
}
