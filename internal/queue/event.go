// Package queue defines message payloads exchanged over the message broker.
package queue

// ParkingActivityEvent is published whenever a reservation changes
// state: a slot is reserved, a visitor checks in or out, or a
// reservation is cancelled.  It carries enough for downstream
// consumers to log or trigger analytics without querying the
// primary database.
type ParkingActivityEvent struct {
    Action        string `json:"action"` // reserved | visitor_checkin | visitor_checkout | cancelled
    ReservationID uint64 `json:"reservation_id"`
    UserID        string `json:"user_id"`
    ShiftID       uint64 `json:"shift_id"`
    Duration      string `json:"duration,omitempty"` // set on visitor_checkout
    OccurredAt    string `json:"occurred_at"`
}
