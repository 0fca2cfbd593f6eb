package outreach

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"callpilot/models"
	"callpilot/telephony"
)

// Registry owns every call session for the process. All state transitions go
// through it so the confirmed check-and-set stays atomic.
type Registry struct {
	mu             sync.Mutex
	sessions       map[string]*models.CallSession
	byConversation map[string]string // platform conversation id -> session id
	logger         *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		sessions:       make(map[string]*models.CallSession),
		byConversation: make(map[string]string),
		logger:         logger,
	}
}

// Create registers a new session in Queued state and returns its snapshot.
func (r *Registry) Create(t Target) models.CallSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &models.CallSession{
		ID:           uuid.New().String(),
		ProviderID:   t.ProviderID,
		ProviderName: t.ProviderName,
		Phone:        t.Phone,
		Rank:         t.Rank,
		Score:        t.Score,
		State:        models.CallQueued,
		CreatedAt:    time.Now(),
	}
	r.sessions[s.ID] = s
	return *s
}

// BindPlacement records the platform reference after a successful placement
// and moves the session to Dialing.
func (r *Registry) BindPlacement(sessionID string, ref telephony.SessionRef) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.State != models.CallQueued {
		return
	}
	s.ConversationID = ref.ConversationID
	s.CallSID = ref.CallSID
	s.State = models.CallDialing
	if ref.ConversationID != "" {
		r.byConversation[ref.ConversationID] = sessionID
	}
}

// MarkFailed moves a non-terminal session to Failed with a reason. Sibling
// sessions are untouched; a partial swarm is valid.
func (r *Registry) MarkFailed(sessionID, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.State.Terminal() {
		return
	}
	s.State = models.CallFailed
	s.FailureReason = reason
}

// Apply ingests a call-state notification from the platform, correlated by
// conversation id or session id. Terminal sessions are never overwritten and
// Confirmed is unreachable through this path.
func (r *Registry) Apply(event models.CallStateEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookupLocked(event.SessionRef)
	if s == nil || s.State.Terminal() {
		return false
	}
	switch event.State {
	case models.CallInProgress:
		s.State = models.CallInProgress
	case models.CallCompleted:
		s.State = models.CallCompleted
	case models.CallFailed:
		s.State = models.CallFailed
		s.FailureReason = event.Reason
	default:
		r.logger.Debug("Ignoring call-state notification",
			zap.String("ref", event.SessionRef), zap.String("state", string(event.State)))
		return false
	}
	return true
}

// Resolve maps a confirmation ref to its session, if one is known.
func (r *Registry) Resolve(ref string) (models.CallSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookupLocked(ref)
	if s == nil {
		return models.CallSession{}, false
	}
	return *s, true
}

// Confirm transitions a session to Confirmed. Returns false when the session
// is already terminal: a confirmation arriving after the session completed,
// failed or confirmed leaves its state alone (the booking itself is still
// accepted upstream). Only the consolidator calls this, under its own
// serialization, so no two callers can both observe an unconfirmed session.
func (r *Registry) Confirm(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.State.Terminal() {
		return false
	}
	s.State = models.CallConfirmed
	return true
}

// Get returns a session snapshot by id.
func (r *Registry) Get(sessionID string) (models.CallSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return models.CallSession{}, false
	}
	return *s, true
}

// Snapshot returns copies of all sessions for progress display.
func (r *Registry) Snapshot() []models.CallSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.CallSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out
}

func (r *Registry) lookupLocked(ref string) *models.CallSession {
	if s, ok := r.sessions[ref]; ok {
		return s
	}
	if id, ok := r.byConversation[ref]; ok {
		return r.sessions[id]
	}
	return nil
}

// StartReaper periodically moves sessions past their lifetime to Completed:
// the call happened, no booking resulted. Bookkeeping only; the platform is
// not told to hang up.
func (r *Registry) StartReaper(ttl, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			r.reapOnce(time.Now(), ttl)
		}
	}()
}

func (r *Registry) reapOnce(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	reaped := 0
	for _, s := range r.sessions {
		if s.State.Terminal() || now.Sub(s.CreatedAt) < ttl {
			continue
		}
		s.State = models.CallCompleted
		reaped++
	}
	if reaped > 0 {
		r.logger.Info("Expired call sessions", zap.Int("count", reaped))
	}
	return reaped
}
