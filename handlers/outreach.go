package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"callpilot/config"
	"callpilot/services/outreach"
	"callpilot/utils"
)

// OutreachHandler serves the solo and swarm dispatch commands.
type OutreachHandler struct {
	Campaign outreach.CampaignService
	Logger   *zap.Logger
}

func NewOutreachHandler(campaign outreach.CampaignService, logger *zap.Logger) *OutreachHandler {
	return &OutreachHandler{Campaign: campaign, Logger: logger}
}

// StartCallHandler places a single refined call against one explicit number.
func (h *OutreachHandler) StartCallHandler(c *gin.Context) {
	var input struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
		Task        string `json:"task" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if !config.HasCallPlacement() {
		utils.JSONError(c, http.StatusInternalServerError,
			"call placement not configured",
			"Set ELEVENLABS_API_KEY, AGENT_ID and AGENT_PHONE_NUMBER_ID.")
		return
	}

	h.Logger.Info("User objective received",
		zap.String("phone", input.PhoneNumber), zap.String("task", input.Task))

	session, err := h.Campaign.StartSolo(c.Request.Context(), input.PhoneNumber, input.Task)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("failed to start call: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// StartSwarmHandler dispatches concurrent calls against the top-ranked
// providers. Per-target placement failures show up in the session statuses,
// not as a failure of this request.
func (h *OutreachHandler) StartSwarmHandler(c *gin.Context) {
	var req outreach.SwarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if req.UserPhone == "" || req.Objective == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_phone and objective are required"})
		return
	}

	if !config.HasCallPlacement() {
		utils.JSONError(c, http.StatusInternalServerError,
			"call placement not configured",
			"Set ELEVENLABS_API_KEY, AGENT_ID and AGENT_PHONE_NUMBER_ID.")
		return
	}

	h.Logger.Info("Swarm objective received",
		zap.String("userPhone", req.UserPhone), zap.String("objective", req.Objective))

	result, err := h.Campaign.StartSwarm(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to start swarm: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deployed": result.Sessions,
		"ranked":   result.Ranked,
	})
}
