package telephony

import "context"

// CallRequest describes one outbound call to place.
type CallRequest struct {
	ToNumber string
	Prompt   string
}

// SessionRef is the voice platform's opaque reference for a placed call.
type SessionRef struct {
	ConversationID string
	CallSID        string
}

// Client abstracts the call-placing service. StartCall returns only an
// opaque session reference; connection progress and confirmations arrive
// asynchronously through the webhook surface.
type Client interface {
	StartCall(ctx context.Context, req CallRequest) (SessionRef, error)
	Configured() bool
}
