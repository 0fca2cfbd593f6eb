package models

import "time"

// Sink outcome statuses. A sink that was never configured reports
// SinkNotConfigured; a configured sink reports exactly one of success or
// failure after its single delivery attempt.
const (
	SinkPending       = "pending"
	SinkNotConfigured = "notConfigured"
	SinkSuccess       = "success"
	SinkFailed        = "failed"
)

// SinkOutcome records the result of one delivery attempt to one sink.
type SinkOutcome struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ForwardOutcome aggregates the independent calendar and webhook outcomes
// for one accepted booking.
type ForwardOutcome struct {
	Calendar SinkOutcome `json:"calendar"`
	Webhook  SinkOutcome `json:"webhook"`
}

// Booking is one accepted booking confirmation. Immutable after creation
// except for the two sink outcome fields, which are set at most once.
type Booking struct {
	ID             string      `json:"id"`
	SessionID      string      `json:"sessionId,omitempty"` // empty when correlation was unavailable
	ProviderName   string      `json:"providerName"`
	Date           string      `json:"date"` // "YYYY-MM-DD"
	Time           string      `json:"time"` // "HH:MM"
	Title          string      `json:"title,omitempty"`
	RequesterPhone string      `json:"requesterPhone,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	CalendarSync   SinkOutcome `json:"calendarSync"`
	Forward        SinkOutcome `json:"forward"`
}
