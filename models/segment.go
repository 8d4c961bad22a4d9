package models

import "time"

// Segment types.
const (
	SegmentFlight        = "flight"
	SegmentCharter       = "charter"
	SegmentCharterFlight = "charter_flight"
	SegmentHotel         = "hotel"
	SegmentTransport     = "transport"
	SegmentRestaurant    = "restaurant"
	SegmentActivity      = "activity"
	SegmentNote          = "note"
)

// IsFlightType reports whether t can participate in a multi-leg journey.
func IsFlightType(t string) bool {
	return t == SegmentFlight || t == SegmentCharterFlight
}

// TripSegment is one bookable unit on one day of one version.
type TripSegment struct {
	SegmentID string `json:"segmentid" bson:"segmentid"`
	VersionID string `json:"versionId" bson:"versionId"`
	TripID    string `json:"tripId" bson:"tripId"`
	OrgID     string `json:"orgId" bson:"orgId"`

	Type      string `json:"type" bson:"type"`
	Title     string `json:"title,omitempty" bson:"title,omitempty"`
	DayNumber int    `json:"dayNumber" bson:"dayNumber"` // 1-based from trip start
	SortOrder int    `json:"sortOrder" bson:"sortOrder"`

	// Clock times for calendar placement, "HH:MM" local to the segment.
	StartTime string `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty" bson:"endTime,omitempty"`

	Cost         float64 `json:"cost,omitempty" bson:"cost,omitempty"`
	Currency     string  `json:"currency,omitempty" bson:"currency,omitempty"`
	Quantity     int     `json:"quantity,omitempty" bson:"quantity,omitempty"`
	PricePerUnit float64 `json:"pricePerUnit,omitempty" bson:"pricePerUnit,omitempty"`

	ConfirmationNumber string `json:"confirmationNumber,omitempty" bson:"confirmationNumber,omitempty"`
	Notes              string `json:"notes,omitempty" bson:"notes,omitempty"`

	JourneyID        string `json:"journeyId,omitempty" bson:"journeyId,omitempty"`
	PropertyGroupID  string `json:"propertyGroupId,omitempty" bson:"propertyGroupId,omitempty"`
	ChoiceGroupID    string `json:"choiceGroupId,omitempty" bson:"choiceGroupId,omitempty"`
	IsChoiceSelected bool   `json:"isChoiceSelected,omitempty" bson:"isChoiceSelected,omitempty"`
	HasVariants      bool   `json:"hasVariants,omitempty" bson:"hasVariants,omitempty"`

	Meta SegmentMeta `json:"meta,omitempty" bson:"meta,omitempty"`

	Photos []string `json:"photos,omitempty" bson:"photos,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// SegmentMeta holds the type-specific fields of a segment. Exactly one
// branch is populated, matching TripSegment.Type. Raw client metadata is
// normalized into this shape once, at ingestion (see ParseSegmentMeta),
// so render code never probes loose maps.
type SegmentMeta struct {
	Flight     *FlightMeta     `json:"flight,omitempty" bson:"flight,omitempty"`
	Hotel      *HotelMeta      `json:"hotel,omitempty" bson:"hotel,omitempty"`
	Restaurant *RestaurantMeta `json:"restaurant,omitempty" bson:"restaurant,omitempty"`
	Activity   *ActivityMeta   `json:"activity,omitempty" bson:"activity,omitempty"`
	Transport  *TransportMeta  `json:"transport,omitempty" bson:"transport,omitempty"`
	Note       *NoteMeta       `json:"note,omitempty" bson:"note,omitempty"`
}

type FlightMeta struct {
	Airline          string `json:"airline,omitempty" bson:"airline,omitempty"`
	FlightNumber     string `json:"flightNumber,omitempty" bson:"flightNumber,omitempty"`
	DepartureAirport string `json:"departureAirport,omitempty" bson:"departureAirport,omitempty"` // IATA
	ArrivalAirport   string `json:"arrivalAirport,omitempty" bson:"arrivalAirport,omitempty"`
	DepartureTimeUTC string `json:"departureTimeUtc,omitempty" bson:"departureTimeUtc,omitempty"`
	ArrivalTimeUTC   string `json:"arrivalTimeUtc,omitempty" bson:"arrivalTimeUtc,omitempty"`
	DepartureLocal   string `json:"departureLocal,omitempty" bson:"departureLocal,omitempty"`
	ArrivalLocal     string `json:"arrivalLocal,omitempty" bson:"arrivalLocal,omitempty"`
	Cabin            string `json:"cabin,omitempty" bson:"cabin,omitempty"`
	Stops            string `json:"stops,omitempty" bson:"stops,omitempty"` // "nonstop", "1 stop"
	Aircraft         string `json:"aircraft,omitempty" bson:"aircraft,omitempty"`
	LegNumber        int    `json:"legNumber,omitempty" bson:"legNumber,omitempty"`
}

type HotelMeta struct {
	HotelName  string `json:"hotelName,omitempty" bson:"hotelName,omitempty"`
	RoomType   string `json:"roomType,omitempty" bson:"roomType,omitempty"`
	BoardBasis string `json:"boardBasis,omitempty" bson:"boardBasis,omitempty"` // "half board"
	Guests     int    `json:"guests,omitempty" bson:"guests,omitempty"`
	CheckIn    string `json:"checkIn,omitempty" bson:"checkIn,omitempty"`
	CheckOut   string `json:"checkOut,omitempty" bson:"checkOut,omitempty"`
	Address    string `json:"address,omitempty" bson:"address,omitempty"`
}

type RestaurantMeta struct {
	Name            string `json:"name,omitempty" bson:"name,omitempty"`
	Cuisine         string `json:"cuisine,omitempty" bson:"cuisine,omitempty"`
	ReservationTime string `json:"reservationTime,omitempty" bson:"reservationTime,omitempty"`
	PartySize       int    `json:"partySize,omitempty" bson:"partySize,omitempty"`
	DressCode       string `json:"dressCode,omitempty" bson:"dressCode,omitempty"`
	Address         string `json:"address,omitempty" bson:"address,omitempty"`
}

type ActivityMeta struct {
	Name       string `json:"name,omitempty" bson:"name,omitempty"`
	Operator   string `json:"operator,omitempty" bson:"operator,omitempty"`
	Duration   string `json:"duration,omitempty" bson:"duration,omitempty"`
	Difficulty string `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Address    string `json:"address,omitempty" bson:"address,omitempty"`
}

type TransportMeta struct {
	Mode     string `json:"mode,omitempty" bson:"mode,omitempty"` // car, rail, ferry
	Provider string `json:"provider,omitempty" bson:"provider,omitempty"`
	Vehicle  string `json:"vehicle,omitempty" bson:"vehicle,omitempty"`
	Pickup   string `json:"pickup,omitempty" bson:"pickup,omitempty"`
	Dropoff  string `json:"dropoff,omitempty" bson:"dropoff,omitempty"`
}

type NoteMeta struct {
	Text string `json:"text,omitempty" bson:"text,omitempty"`
}

// LegNumber returns the journey leg ordering key, 0 when absent.
func (s *TripSegment) LegNumber() int {
	if s.Meta.Flight != nil {
		return s.Meta.Flight.LegNumber
	}
	return 0
}
