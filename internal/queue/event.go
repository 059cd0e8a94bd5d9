// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/dinner-invite/internal/model"
)

// GuestSeatedQueue is the durable queue carrying GuestSeatedEvent.
const GuestSeatedQueue = "guests.seated"

// GuestSeatedEvent is published when a guest's reservation is committed.
type GuestSeatedEvent struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name"`
	ReservedAt string `json:"reserved_at"`
}

// NewGuestSeatedEvent builds the event for r, stamped with at in RFC 3339.
func NewGuestSeatedEvent(r model.Reservation, at time.Time) GuestSeatedEvent {
	return GuestSeatedEvent{
		Seat:       int(r.Seat),
		Name:       r.Name,
		ReservedAt: at.UTC().Format(time.RFC3339),
	}
}
