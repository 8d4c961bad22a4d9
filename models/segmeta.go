package models

import (
	"strconv"
	"strings"
)

// ParseSegmentMeta normalizes a loose metadata bag into the typed branch
// for segType. Older clients used drifting key names ("from" vs
// "departureAirport", "property" vs "hotelName"); every such fallback is
// resolved here, once, so downstream code reads typed fields only.
func ParseSegmentMeta(segType string, raw map[string]any) SegmentMeta {
	var meta SegmentMeta
	if raw == nil {
		raw = map[string]any{}
	}
	switch segType {
	case SegmentFlight, SegmentCharter, SegmentCharterFlight:
		meta.Flight = &FlightMeta{
			Airline:          pickString(raw, "airline", "carrier"),
			FlightNumber:     pickString(raw, "flightNumber", "flightNo", "flight"),
			DepartureAirport: strings.ToUpper(pickString(raw, "departureAirport", "depAirport", "from", "origin")),
			ArrivalAirport:   strings.ToUpper(pickString(raw, "arrivalAirport", "arrAirport", "to", "destination")),
			DepartureTimeUTC: pickString(raw, "departureTimeUtc", "departureUtc", "depTimeUtc"),
			ArrivalTimeUTC:   pickString(raw, "arrivalTimeUtc", "arrivalUtc", "arrTimeUtc"),
			DepartureLocal:   pickString(raw, "departureLocal", "departureTime", "depTime"),
			ArrivalLocal:     pickString(raw, "arrivalLocal", "arrivalTime", "arrTime"),
			Cabin:            pickString(raw, "cabin", "class"),
			Stops:            pickString(raw, "stops", "stopText"),
			Aircraft:         pickString(raw, "aircraft", "equipment"),
			LegNumber:        pickInt(raw, "legNumber", "leg"),
		}
	case SegmentHotel:
		meta.Hotel = &HotelMeta{
			HotelName:  pickString(raw, "hotelName", "property", "name"),
			RoomType:   pickString(raw, "roomType", "room"),
			BoardBasis: pickString(raw, "boardBasis", "board", "mealPlan"),
			Guests:     pickInt(raw, "guests", "occupancy"),
			CheckIn:    pickString(raw, "checkIn", "checkin"),
			CheckOut:   pickString(raw, "checkOut", "checkout"),
			Address:    pickString(raw, "address", "location"),
		}
	case SegmentRestaurant:
		meta.Restaurant = &RestaurantMeta{
			Name:            pickString(raw, "restaurantName", "name"),
			Cuisine:         pickString(raw, "cuisine", "cuisineType"),
			ReservationTime: pickString(raw, "reservationTime", "reservation"),
			PartySize:       pickInt(raw, "partySize", "guests"),
			DressCode:       pickString(raw, "dressCode", "dress"),
			Address:         pickString(raw, "address", "location"),
		}
	case SegmentActivity:
		meta.Activity = &ActivityMeta{
			Name:       pickString(raw, "activityName", "name"),
			Operator:   pickString(raw, "operator", "company"),
			Duration:   pickString(raw, "duration"),
			Difficulty: pickString(raw, "difficulty", "level"),
			Address:    pickString(raw, "address", "location", "meetingPoint"),
		}
	case SegmentTransport:
		meta.Transport = &TransportMeta{
			Mode:     pickString(raw, "mode", "transportType"),
			Provider: pickString(raw, "provider", "company"),
			Vehicle:  pickString(raw, "vehicle", "vehicleType"),
			Pickup:   pickString(raw, "pickup", "pickupLocation", "from"),
			Dropoff:  pickString(raw, "dropoff", "dropoffLocation", "to"),
		}
	case SegmentNote:
		meta.Note = &NoteMeta{
			Text: pickString(raw, "text", "note", "body"),
		}
	}
	return meta
}

func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func pickInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v)
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}
