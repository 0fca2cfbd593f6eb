package forward

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"callpilot/models"
)

// CalendarSink writes accepted bookings into the user's calendar.
type CalendarSink interface {
	CreateEvent(ctx context.Context, b models.Booking) error
	Configured() bool
}

// WebhookSink delivers accepted bookings to a generic downstream consumer.
type WebhookSink interface {
	Deliver(ctx context.Context, b models.Booking) error
	Configured() bool
}

// Forwarder fans an accepted booking out to the configured sinks.
type Forwarder interface {
	Forward(ctx context.Context, b models.Booking) models.ForwardOutcome
}

// DefaultForwarder implements Forwarder. Each sink gets exactly one delivery
// attempt; outcomes are recorded, never raised, and one sink's failure does
// not block the other's attempt.
type DefaultForwarder struct {
	Calendar CalendarSink
	Webhook  WebhookSink
	Logger   *zap.Logger
}

// Forward attempts both sinks concurrently and reports their independent
// outcomes. The booking is already accepted by the time this runs; nothing
// here can undo it.
func (f *DefaultForwarder) Forward(ctx context.Context, b models.Booking) models.ForwardOutcome {
	var outcome models.ForwardOutcome
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		outcome.Calendar = f.attemptCalendar(ctx, b)
	}()
	go func() {
		defer wg.Done()
		outcome.Webhook = f.attemptWebhook(ctx, b)
	}()
	wg.Wait()

	return outcome
}

func (f *DefaultForwarder) attemptCalendar(ctx context.Context, b models.Booking) models.SinkOutcome {
	if f.Calendar == nil || !f.Calendar.Configured() {
		return models.SinkOutcome{Status: models.SinkNotConfigured}
	}
	if err := f.Calendar.CreateEvent(ctx, b); err != nil {
		f.Logger.Warn("Calendar sync failed",
			zap.String("bookingId", b.ID), zap.Error(err))
		return models.SinkOutcome{Status: models.SinkFailed, Reason: err.Error()}
	}
	return models.SinkOutcome{Status: models.SinkSuccess}
}

func (f *DefaultForwarder) attemptWebhook(ctx context.Context, b models.Booking) models.SinkOutcome {
	if f.Webhook == nil || !f.Webhook.Configured() {
		return models.SinkOutcome{Status: models.SinkNotConfigured}
	}
	if err := f.Webhook.Deliver(ctx, b); err != nil {
		f.Logger.Warn("Webhook forward failed",
			zap.String("bookingId", b.ID), zap.Error(err))
		return models.SinkOutcome{Status: models.SinkFailed, Reason: err.Error()}
	}
	return models.SinkOutcome{Status: models.SinkSuccess}
}
