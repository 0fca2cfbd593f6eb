package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"callpilot/models"
)

// CalendarClient talks to the user's calendar automation (webhook-backed):
// availability reads before a swarm, event writes after a booking.
type CalendarClient struct {
	AvailabilityURL string
	CreateEventURL  string
	HTTPClient      *http.Client
	Logger          *zap.Logger
}

func NewCalendarClient(availabilityURL, createEventURL string, logger *zap.Logger) *CalendarClient {
	return &CalendarClient{
		AvailabilityURL: availabilityURL,
		CreateEventURL:  createEventURL,
		HTTPClient:      &http.Client{Timeout: 10 * time.Second},
		Logger:          logger,
	}
}

// Configured reports whether the calendar write hook is set up.
func (c *CalendarClient) Configured() bool {
	return c.CreateEventURL != ""
}

// FreeSlots asks the calendar for open windows around the preferred time.
// Any failure, or an unconfigured availability hook, falls back to the
// preferred time alone so a swarm can still be dispatched.
func (c *CalendarClient) FreeSlots(ctx context.Context, preferredTime string) []string {
	fallback := []string{preferredTime}
	if c.AvailabilityURL == "" {
		return fallback
	}

	payload, _ := json.Marshal(map[string]string{"preferred_time": preferredTime})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AvailabilityURL, bytes.NewReader(payload))
	if err != nil {
		return fallback
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn("Calendar availability check failed", zap.Error(err))
		return fallback
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fallback
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return fallback
	}
	var data struct {
		FreeSlots      []string `json:"free_slots"`
		Slots          []string `json:"slots"`
		AvailableSlots []string `json:"available_slots"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return fallback
	}
	for _, slots := range [][]string{data.FreeSlots, data.Slots, data.AvailableSlots} {
		if len(slots) > 0 {
			return slots
		}
	}
	return fallback
}

// CreateEvent writes one calendar event for an accepted booking.
func (c *CalendarClient) CreateEvent(ctx context.Context, b models.Booking) error {
	title := b.Title
	if title == "" {
		title = fmt.Sprintf("Appointment with %s", b.ProviderName)
	}
	payload, err := json.Marshal(map[string]string{
		"date":     b.Date,
		"time":     b.Time,
		"title":    title,
		"attendee": b.RequesterPhone,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal calendar event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.CreateEventURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build calendar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("calendar rejected event: %s", resp.Status)
	}
	return nil
}
