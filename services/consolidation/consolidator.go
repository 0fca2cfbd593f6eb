package consolidation

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"callpilot/models"
	"callpilot/services/outreach"
	"callpilot/services/telemetry"
)

// Consolidator reduces confirmation events, which may arrive from any
// in-flight session in any order and more than once, to deduplicated
// bookings in the telemetry history.
type Consolidator interface {
	OnConfirmation(event models.ConfirmationEvent) (*models.ConsolidationResult, error)
}

// DefaultConsolidator implements Consolidator. A single mutex serializes all
// ingestion, which makes the per-session "already confirmed" check-and-set
// atomic: two concurrent deliveries for the same session cannot both observe
// an unconfirmed session.
type DefaultConsolidator struct {
	Registry *outreach.Registry
	History  *telemetry.History
	Logger   *zap.Logger

	mu        sync.Mutex
	bySession map[string]models.Booking // session id -> accepted booking
}

func NewDefaultConsolidator(registry *outreach.Registry, history *telemetry.History, logger *zap.Logger) *DefaultConsolidator {
	return &DefaultConsolidator{
		Registry:  registry,
		History:   history,
		Logger:    logger,
		bySession: make(map[string]models.Booking),
	}
}

// OnConfirmation validates and consolidates one confirmation event.
// Malformed events are rejected with no state change. A redelivery for an
// already-confirmed session returns the existing booking as an idempotent
// duplicate. Events that cannot be correlated to a session are accepted
// unconditionally; dedup by session is best-effort when correlation is
// unavailable. Distinct sessions of the same swarm may each produce their
// own booking; no winner is arbitrated.
func (c *DefaultConsolidator) OnConfirmation(event models.ConfirmationEvent) (*models.ConsolidationResult, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sessionID := ""
	if event.SessionRef != "" {
		if session, ok := c.Registry.Resolve(event.SessionRef); ok {
			if existing, confirmed := c.bySession[session.ID]; confirmed {
				c.Logger.Debug("Duplicate confirmation",
					zap.String("sessionId", session.ID),
					zap.String("bookingId", existing.ID))
				return &models.ConsolidationResult{
					Status:  models.ConsolidationDuplicate,
					Booking: existing,
				}, nil
			}
			sessionID = session.ID
		}
		// An unresolvable ref falls through to the unconditional-accept
		// path: some confirmation sources cannot report which call
		// produced the booking.
	}

	booking := models.Booking{
		ID:             uuid.New().String(),
		SessionID:      sessionID,
		ProviderName:   event.ProviderName,
		Date:           event.Date,
		Time:           event.Time,
		Title:          event.Title,
		RequesterPhone: event.RequesterPhone,
		CreatedAt:      time.Now(),
		CalendarSync:   models.SinkOutcome{Status: models.SinkPending},
		Forward:        models.SinkOutcome{Status: models.SinkPending},
	}

	if sessionID != "" {
		c.Registry.Confirm(sessionID)
		c.bySession[sessionID] = booking
	}
	c.History.Append(booking)

	c.Logger.Info("Booking consolidated",
		zap.String("bookingId", booking.ID),
		zap.String("provider", booking.ProviderName),
		zap.String("date", booking.Date),
		zap.String("time", booking.Time))

	return &models.ConsolidationResult{
		Status:  models.ConsolidationAccepted,
		Booking: booking,
	}, nil
}

func validateEvent(event models.ConfirmationEvent) error {
	if event.ProviderName == "" {
		return NewMalformedBookingError("provider_name is required")
	}
	if event.Date == "" {
		return NewMalformedBookingError("date is required")
	}
	if _, err := time.Parse("2006-01-02", event.Date); err != nil {
		return NewMalformedBookingError("date must be formatted YYYY-MM-DD")
	}
	if event.Time == "" {
		return NewMalformedBookingError("time is required")
	}
	if _, err := time.Parse("15:04", event.Time); err != nil {
		return NewMalformedBookingError("time must be formatted HH:MM")
	}
	return nil
}
