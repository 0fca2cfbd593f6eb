package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"callpilot/directory"
	"callpilot/services/ranking"
)

// ProvidersHandler serves the ranked provider listing.
type ProvidersHandler struct {
	Dir    directory.Directory
	Engine ranking.Engine
}

func NewProvidersHandler(dir directory.Directory, engine ranking.Engine) *ProvidersHandler {
	return &ProvidersHandler{Dir: dir, Engine: engine}
}

func (h *ProvidersHandler) GetRankedProvidersHandler(c *gin.Context) {
	providers, err := h.Dir.Providers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to load providers: %v", err)})
		return
	}

	ranked, err := h.Engine.Rank(providers)
	if err != nil {
		var rerr *ranking.RankError
		if errors.As(err, &rerr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": rerr.Message, "code": rerr.Code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"providers": ranked})
}
