package models

import "time"

// CallState is the lifecycle state of one outbound call session.
type CallState string

const (
	CallQueued     CallState = "queued"
	CallDialing    CallState = "dialing"
	CallInProgress CallState = "inProgress"
	CallConfirmed  CallState = "confirmed" // terminal, reachable only via a confirmation event
	CallCompleted  CallState = "completed" // terminal, call happened but no booking resulted
	CallFailed     CallState = "failed"    // terminal, placement or call failure
)

// Terminal reports whether the state admits no further transitions.
func (s CallState) Terminal() bool {
	return s == CallConfirmed || s == CallCompleted || s == CallFailed
}

// CallSession tracks one outbound call against one target.
type CallSession struct {
	ID             string    `json:"sessionId"`
	ProviderID     string    `json:"providerId,omitempty"`
	ProviderName   string    `json:"providerName,omitempty"`
	Phone          string    `json:"phone"`
	Rank           int       `json:"rank,omitempty"`
	Score          float64   `json:"score,omitempty"`
	State          CallState `json:"state"`
	FailureReason  string    `json:"failureReason,omitempty"`
	ConversationID string    `json:"conversationId,omitempty"` // opaque ref from the voice platform
	CallSID        string    `json:"callSid,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CallStateEvent is an asynchronous transition notification from the
// call-placing service, correlated by the platform's session reference.
type CallStateEvent struct {
	SessionRef string    `json:"session_ref"`
	State      CallState `json:"state"`
	Reason     string    `json:"reason,omitempty"`
}
