package models

// ConfirmationEvent is an asynchronous message asserting that a booking was
// agreed upon during a call. SessionRef may be empty when the confirmation
// source cannot correlate the event to a call.
type ConfirmationEvent struct {
	SessionRef     string `json:"session_ref,omitempty"`
	ProviderName   string `json:"provider_name"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Title          string `json:"title,omitempty"`
	RequesterPhone string `json:"requester_phone,omitempty"`
}

// Consolidation result statuses.
const (
	ConsolidationAccepted  = "accepted"
	ConsolidationDuplicate = "duplicate"
)

// ConsolidationResult reports how a confirmation event was consolidated.
// Duplicate deliveries are an idempotent success carrying the existing
// booking, not an error.
type ConsolidationResult struct {
	Status  string  `json:"status"`
	Booking Booking `json:"booking"`
}
