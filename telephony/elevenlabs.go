package telephony

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const outboundCallURL = "https://api.elevenlabs.io/v1/convai/twilio/outbound-call"

// ElevenLabsClient places outbound calls through the ElevenLabs
// conversational AI platform.
type ElevenLabsClient struct {
	APIKey        string
	AgentID       string
	PhoneNumberID string
	BaseURL       string
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

func NewElevenLabsClient(apiKey, agentID, phoneNumberID string, logger *zap.Logger) *ElevenLabsClient {
	return &ElevenLabsClient{
		APIKey:        apiKey,
		AgentID:       agentID,
		PhoneNumberID: phoneNumberID,
		BaseURL:       outboundCallURL,
		HTTPClient:    &http.Client{Timeout: 60 * time.Second},
		Logger:        logger,
	}
}

func (c *ElevenLabsClient) Configured() bool {
	return c.APIKey != "" && c.AgentID != "" && c.PhoneNumberID != ""
}

// StartCall triggers one outbound call with the agent prompt overridden for
// this target. Only the platform's session reference is returned; the call
// itself proceeds asynchronously.
func (c *ElevenLabsClient) StartCall(ctx context.Context, req CallRequest) (SessionRef, error) {
	payload := map[string]any{
		"agent_id":              c.AgentID,
		"agent_phone_number_id": c.PhoneNumberID,
		"to_number":             req.ToNumber,
		"conversation_initiation_client_data": map[string]any{
			"conversation_config_override": map[string]any{
				"agent": map[string]any{
					"prompt": map[string]any{"prompt": req.Prompt},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return SessionRef{}, fmt.Errorf("failed to marshal outbound call payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return SessionRef{}, fmt.Errorf("failed to build outbound call request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return SessionRef{}, fmt.Errorf("outbound call request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return SessionRef{}, fmt.Errorf("outbound call rejected: %s", errorDetail(respBody, resp.Status))
	}

	var result struct {
		ConversationID string `json:"conversation_id"`
		CallSID        string `json:"callSid"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return SessionRef{}, fmt.Errorf("failed to parse outbound call response: %w", err)
	}

	c.Logger.Debug("Outbound call dispatched",
		zap.String("conversationId", result.ConversationID),
		zap.String("callSid", result.CallSID))

	return SessionRef{ConversationID: result.ConversationID, CallSID: result.CallSID}, nil
}

// errorDetail pulls the platform's error message out of a failure body,
// falling back to the raw body or HTTP status.
func errorDetail(body []byte, status string) string {
	var errBody struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil {
		if errBody.Detail != "" {
			return errBody.Detail
		}
		if errBody.Message != "" {
			return errBody.Message
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	return status
}
