package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"callpilot/models"
)

// WebhookSinkClient delivers accepted bookings to a generic downstream URL.
type WebhookSinkClient struct {
	URL        string
	HTTPClient *http.Client
}

func NewWebhookSinkClient(url string) *WebhookSinkClient {
	return &WebhookSinkClient{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookSinkClient) Configured() bool {
	return w.URL != ""
}

// Deliver posts the booking payload once. No retries; the surrounding
// tooling owns any redelivery policy.
func (w *WebhookSinkClient) Deliver(ctx context.Context, b models.Booking) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal booking payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook rejected delivery: %s", resp.Status)
	}
	return nil
}
