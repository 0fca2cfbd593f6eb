package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"callpilot/models"
	"callpilot/services/consolidation"
	"callpilot/services/forward"
	"callpilot/services/outreach"
	"callpilot/services/telemetry"
)

// WebhookHandler ingests asynchronous events from the voice platform:
// booking confirmations and call-state transitions.
type WebhookHandler struct {
	Consolidator consolidation.Consolidator
	Registry     *outreach.Registry
	Forwarder    forward.Forwarder
	History      *telemetry.History
	Logger       *zap.Logger
}

func NewWebhookHandler(
	consolidator consolidation.Consolidator,
	registry *outreach.Registry,
	forwarder forward.Forwarder,
	history *telemetry.History,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		Consolidator: consolidator,
		Registry:     registry,
		Forwarder:    forwarder,
		History:      history,
		Logger:       logger,
	}
}

// ConfirmationHandler consolidates one confirmation event. An accepted
// booking is acknowledged immediately; sink forwarding runs in the
// background and can never fail the acknowledgment.
func (h *WebhookHandler) ConfirmationHandler(c *gin.Context) {
	var event models.ConfirmationEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Consolidator.OnConfirmation(event)
	if err != nil {
		var cerr *consolidation.ConsolidationError
		if errors.As(err, &cerr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": cerr.Message, "code": cerr.Code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result.Status == models.ConsolidationAccepted {
		booking := result.Booking
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			outcome := h.Forwarder.Forward(ctx, booking)
			h.History.RecordOutcomes(booking.ID, outcome)
		}()
	}

	c.JSON(http.StatusOK, result)
}

// CallStateHandler applies a call-state transition notification.
func (h *WebhookHandler) CallStateHandler(c *gin.Context) {
	var event models.CallStateEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if event.SessionRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_ref is required"})
		return
	}

	applied := h.Registry.Apply(event)
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}
