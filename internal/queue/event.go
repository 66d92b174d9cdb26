// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// BookingEventQueue is the durable queue all booking lifecycle events go
// through: creation, verification, rejection, suspension, refund.
const BookingEventQueue = "booking.status"

// BookingEvent is published on every booking lifecycle change. It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type BookingEvent struct {
	EventID          string `json:"event_id"`
	BookingID        uint64 `json:"booking_id"`
	BookingReference string `json:"booking_reference"`
	UserID           uint64 `json:"user_id"`
	Destination      string `json:"destination"`
	Status           string `json:"status"`
	Reason           string `json:"reason,omitempty"`
	TotalAmount      int64  `json:"total_amount"`
	OccurredAt       string `json:"occurred_at"`
}
