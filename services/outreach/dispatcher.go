package outreach

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"callpilot/models"
	"callpilot/telephony"
)

// Target is one call to place: an ad-hoc phone number in solo mode, or a
// ranked provider in swarm mode.
type Target struct {
	ProviderID   string
	ProviderName string
	Phone        string
	Prompt       string
	Rank         int
	Score        float64
}

// Dispatcher opens one call session per target.
type Dispatcher interface {
	Dispatch(ctx context.Context, targets []Target) []models.CallSession
}

// DefaultDispatcher implements Dispatcher against the call-placing service.
type DefaultDispatcher struct {
	Client   telephony.Client
	Registry *Registry
	Logger   *zap.Logger
}

// Dispatch registers a Queued session per target, then starts every call
// concurrently; no target's placement blocks another's. A placement failure
// lands in that session's status, never in an error for the whole dispatch.
// Returned sessions are in target order.
func (d *DefaultDispatcher) Dispatch(ctx context.Context, targets []Target) []models.CallSession {
	sessions := make([]models.CallSession, len(targets))
	for i, t := range targets {
		sessions[i] = d.Registry.Create(t)
	}

	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(sessionID string, t Target) {
			defer wg.Done()
			ref, err := d.Client.StartCall(ctx, telephony.CallRequest{
				ToNumber: t.Phone,
				Prompt:   t.Prompt,
			})
			if err != nil {
				d.Logger.Warn("Call placement failed",
					zap.String("sessionId", sessionID),
					zap.String("phone", t.Phone),
					zap.Error(err))
				d.Registry.MarkFailed(sessionID, err.Error())
				return
			}
			d.Registry.BindPlacement(sessionID, ref)
		}(sessions[i].ID, t)
	}
	wg.Wait()

	// Re-read so callers see the post-placement states.
	for i := range sessions {
		if s, ok := d.Registry.Get(sessions[i].ID); ok {
			sessions[i] = s
		}
	}
	return sessions
}
