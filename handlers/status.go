package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"callpilot/services/forward"
	"callpilot/telephony"
)

// StatusHandler reports which external collaborators are configured.
type StatusHandler struct {
	Telephony telephony.Client
	Calendar  forward.CalendarSink
	Webhook   forward.WebhookSink
}

func NewStatusHandler(tel telephony.Client, cal forward.CalendarSink, wh forward.WebhookSink) *StatusHandler {
	return &StatusHandler{Telephony: tel, Calendar: cal, Webhook: wh}
}

func (h *StatusHandler) GetStatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"call_placement_configured": h.Telephony != nil && h.Telephony.Configured(),
		"calendar_sink_configured":  h.Calendar != nil && h.Calendar.Configured(),
		"webhook_sink_configured":   h.Webhook != nil && h.Webhook.Configured(),
	})
}
