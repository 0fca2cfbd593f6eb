package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"callpilot/handlers"
)

// RegisterRoutes wires every endpoint group onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterOutreachRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
	RegisterQueryRoutes(r, hb)
	RegisterHealthRoute(r)
}

// RegisterOutreachRoutes registers the dispatch commands.
func RegisterOutreachRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/outreach")
	{
		api.POST("/call", hb.StartCallHandler)
		api.POST("/swarm", hb.StartSwarmHandler)
	}
}

// RegisterWebhookRoutes registers the asynchronous ingestion endpoints used
// by the voice platform.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/webhooks")
	{
		api.POST("/confirmation", hb.ConfirmationHandler)
		api.POST("/call-state", hb.CallStateHandler)
	}
}

// RegisterQueryRoutes registers the read-only status surfaces.
func RegisterQueryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/providers/ranked", hb.GetRankedProvidersHandler)
		api.GET("/telemetry/bookings", hb.GetBookingsHandler)
		api.GET("/status", hb.GetStatusHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm CallPilot"})
	})
}
