package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates every endpoint handler for route registration.
type HandlerBundle struct {
	// Outreach endpoints.
	StartCallHandler  gin.HandlerFunc
	StartSwarmHandler gin.HandlerFunc

	// Webhook ingestion endpoints.
	ConfirmationHandler gin.HandlerFunc
	CallStateHandler    gin.HandlerFunc

	// Query endpoints.
	GetBookingsHandler        gin.HandlerFunc
	GetRankedProvidersHandler gin.HandlerFunc
	GetStatusHandler          gin.HandlerFunc
}
