package mq

import (
	"encoding/json"
	"log"

	"voyara/globals"
	"voyara/rdx"
)

const channel = "voyara:events"

// Event names published on the internal bus.
const (
	TripCreated      = "trip.created"
	TripUpdated      = "trip.updated"
	VersionApproved  = "version.approved"
	VariantSelected  = "variant.selected"
	VariantSubmitted = "variant.submitted"
	FlightAlert      = "flight.alert"
	ShareViewed      = "share.viewed"
	DocumentAdded    = "document.added"
)

type Message struct {
	Event  string `json:"event"`
	OrgID  string `json:"orgId,omitempty"`
	TripID string `json:"tripId,omitempty"`
	Ref    string `json:"ref,omitempty"` // entity id the event is about
	Detail string `json:"detail,omitempty"`
}

// Emit publishes an event on the bus. Failures are logged, never
// propagated; the bus is advisory.
func Emit(event string, msg Message) {
	msg.Event = event
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[MQ] marshal %s failed: %v", event, err)
		return
	}
	if err := rdx.Conn.Publish(globals.Ctx, channel, payload).Err(); err != nil {
		log.Printf("[MQ] publish %s failed: %v", event, err)
	}
}

// Subscribe starts a worker that delivers bus messages to handler until
// the process exits. Run it from main in its own goroutine.
func Subscribe(handler func(Message)) {
	sub := rdx.Conn.Subscribe(globals.Ctx, channel)
	ch := sub.Channel()
	for raw := range ch {
		var msg Message
		if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
			log.Printf("[MQ] bad payload: %v", err)
			continue
		}
		handler(msg)
	}
}
