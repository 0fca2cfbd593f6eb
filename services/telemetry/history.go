package telemetry

import (
	"sync"

	"callpilot/models"
)

// DefaultCapacity bounds the booking history kept for display.
const DefaultCapacity = 20

// History is a bounded, insertion-ordered record of accepted bookings,
// newest-last. The consolidator is the only writer; reads take a snapshot so
// concurrent queries never observe a partially appended entry.
type History struct {
	mu       sync.RWMutex
	capacity int
	entries  []models.Booking
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		capacity: capacity,
		entries:  make([]models.Booking, 0, capacity),
	}
}

// Append records a booking, evicting the oldest entry when over capacity.
func (h *History) Append(b models.Booking) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, b)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

// RecordOutcomes sets a booking's sink outcomes. Each outcome is written at
// most once: a booking whose outcomes were already recorded is left alone.
// Returns false when the booking is unknown (already evicted) or already
// finalized.
func (h *History) RecordOutcomes(bookingID string, outcome models.ForwardOutcome) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		if h.entries[i].ID != bookingID {
			continue
		}
		if h.entries[i].CalendarSync.Status != models.SinkPending ||
			h.entries[i].Forward.Status != models.SinkPending {
			return false
		}
		h.entries[i].CalendarSync = outcome.Calendar
		h.entries[i].Forward = outcome.Webhook
		return true
	}
	return false
}

// Snapshot returns a copy of the history, oldest first.
func (h *History) Snapshot() []models.Booking {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.Booking, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the current number of retained bookings.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
