package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"callpilot/services/telemetry"
)

// TelemetryHandler serves the bounded booking history, newest-last.
type TelemetryHandler struct {
	History *telemetry.History
}

func NewTelemetryHandler(history *telemetry.History) *TelemetryHandler {
	return &TelemetryHandler{History: history}
}

func (h *TelemetryHandler) GetBookingsHandler(c *gin.Context) {
	bookings := h.History.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}
