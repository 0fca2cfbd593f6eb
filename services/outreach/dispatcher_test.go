package outreach

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"callpilot/models"
	"callpilot/telephony"
)

// fakeCallClient simulates the call-placing service.
type fakeCallClient struct {
	mu       sync.Mutex
	calls    int
	failFor  map[string]string // phone -> error message
	blockFor time.Duration
}

func (f *fakeCallClient) StartCall(ctx context.Context, req telephony.CallRequest) (telephony.SessionRef, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	reason, fail := f.failFor[req.ToNumber]
	f.mu.Unlock()

	if f.blockFor > 0 {
		time.Sleep(f.blockFor)
	}
	if fail {
		return telephony.SessionRef{}, fmt.Errorf("%s", reason)
	}
	return telephony.SessionRef{
		ConversationID: fmt.Sprintf("conv-%d", n),
		CallSID:        fmt.Sprintf("sid-%d", n),
	}, nil
}

func (f *fakeCallClient) Configured() bool { return true }

func newTestDispatcher(client telephony.Client) (*DefaultDispatcher, *Registry) {
	registry := NewRegistry(zap.NewNop())
	return &DefaultDispatcher{
		Client:   client,
		Registry: registry,
		Logger:   zap.NewNop(),
	}, registry
}

func TestDispatch_AllTargetsDialing(t *testing.T) {
	d, _ := newTestDispatcher(&fakeCallClient{})

	sessions := d.Dispatch(context.Background(), []Target{
		{ProviderID: "1", ProviderName: "One", Phone: "+15551", Rank: 1},
		{ProviderID: "2", ProviderName: "Two", Phone: "+15552", Rank: 2},
	})

	require.Len(t, sessions, 2)
	for _, s := range sessions {
		assert.Equal(t, models.CallDialing, s.State)
		assert.NotEmpty(t, s.ConversationID)
	}
	// Target order is preserved.
	assert.Equal(t, "1", sessions[0].ProviderID)
	assert.Equal(t, "2", sessions[1].ProviderID)
}

func TestDispatch_PartialFailureDoesNotAbortSiblings(t *testing.T) {
	client := &fakeCallClient{failFor: map[string]string{"+15552": "number unreachable"}}
	d, _ := newTestDispatcher(client)

	sessions := d.Dispatch(context.Background(), []Target{
		{ProviderID: "1", Phone: "+15551"},
		{ProviderID: "2", Phone: "+15552"},
		{ProviderID: "3", Phone: "+15553"},
	})

	require.Len(t, sessions, 3)
	assert.Equal(t, models.CallDialing, sessions[0].State)
	assert.Equal(t, models.CallFailed, sessions[1].State)
	assert.Equal(t, "number unreachable", sessions[1].FailureReason)
	assert.Equal(t, models.CallDialing, sessions[2].State)
}

func TestDispatch_StartsConcurrently(t *testing.T) {
	// With 5 targets each blocking 50ms, sequential placement would take
	// 250ms; concurrent placement stays well under that.
	client := &fakeCallClient{blockFor: 50 * time.Millisecond}
	d, _ := newTestDispatcher(client)

	targets := make([]Target, 5)
	for i := range targets {
		targets[i] = Target{ProviderID: fmt.Sprintf("%d", i), Phone: fmt.Sprintf("+1555%d", i)}
	}

	start := time.Now()
	sessions := d.Dispatch(context.Background(), targets)
	elapsed := time.Since(start)

	require.Len(t, sessions, 5)
	assert.Less(t, elapsed, 200*time.Millisecond)
}

func TestRegistry_ApplyCallStateTransitions(t *testing.T) {
	d, registry := newTestDispatcher(&fakeCallClient{})
	sessions := d.Dispatch(context.Background(), []Target{{ProviderID: "1", Phone: "+15551"}})
	ref := sessions[0].ConversationID

	require.True(t, registry.Apply(models.CallStateEvent{SessionRef: ref, State: models.CallInProgress}))
	s, ok := registry.Get(sessions[0].ID)
	require.True(t, ok)
	assert.Equal(t, models.CallInProgress, s.State)

	require.True(t, registry.Apply(models.CallStateEvent{SessionRef: ref, State: models.CallCompleted}))

	// Terminal states are never overwritten.
	assert.False(t, registry.Apply(models.CallStateEvent{SessionRef: ref, State: models.CallInProgress}))
}

func TestRegistry_ApplyUnknownRef(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	assert.False(t, registry.Apply(models.CallStateEvent{SessionRef: "nope", State: models.CallInProgress}))
}

func TestRegistry_ReaperExpiresOnlyNonTerminalSessions(t *testing.T) {
	d, registry := newTestDispatcher(&fakeCallClient{})
	sessions := d.Dispatch(context.Background(), []Target{
		{ProviderID: "1", Phone: "+15551"},
		{ProviderID: "2", Phone: "+15552"},
	})

	// Session 1 confirms; session 2 is still dialing when the lifetime ends.
	require.True(t, registry.Confirm(sessions[0].ID))

	reaped := registry.reapOnce(time.Now().Add(time.Hour), 10*time.Minute)
	assert.Equal(t, 1, reaped)

	s1, _ := registry.Get(sessions[0].ID)
	assert.Equal(t, models.CallConfirmed, s1.State)
	s2, _ := registry.Get(sessions[1].ID)
	assert.Equal(t, models.CallCompleted, s2.State)
}

func TestRegistry_ReaperLeavesFreshSessionsAlone(t *testing.T) {
	d, registry := newTestDispatcher(&fakeCallClient{})
	sessions := d.Dispatch(context.Background(), []Target{{ProviderID: "1", Phone: "+15551"}})

	assert.Equal(t, 0, registry.reapOnce(time.Now(), 10*time.Minute))
	s, _ := registry.Get(sessions[0].ID)
	assert.Equal(t, models.CallDialing, s.State)
}

func TestRegistry_ConfirmCheckAndSet(t *testing.T) {
	d, registry := newTestDispatcher(&fakeCallClient{})
	sessions := d.Dispatch(context.Background(), []Target{{ProviderID: "1", Phone: "+15551"}})

	assert.True(t, registry.Confirm(sessions[0].ID))
	assert.False(t, registry.Confirm(sessions[0].ID), "second confirm must observe the first")
}

func TestRegistry_ConfirmLeavesTerminalSessionsAlone(t *testing.T) {
	d, registry := newTestDispatcher(&fakeCallClient{})
	sessions := d.Dispatch(context.Background(), []Target{
		{ProviderID: "1", Phone: "+15551"},
		{ProviderID: "2", Phone: "+15552"},
	})

	require.True(t, registry.Apply(models.CallStateEvent{
		SessionRef: sessions[0].ConversationID, State: models.CallCompleted,
	}))
	require.True(t, registry.Apply(models.CallStateEvent{
		SessionRef: sessions[1].ConversationID, State: models.CallFailed, Reason: "no answer",
	}))

	// A late confirmation must not flip a terminal state.
	assert.False(t, registry.Confirm(sessions[0].ID))
	assert.False(t, registry.Confirm(sessions[1].ID))

	s0, _ := registry.Get(sessions[0].ID)
	assert.Equal(t, models.CallCompleted, s0.State)
	s1, _ := registry.Get(sessions[1].ID)
	assert.Equal(t, models.CallFailed, s1.State)
}
