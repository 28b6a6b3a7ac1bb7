package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/clearday/clearday-api/internal/errors"
	"github.com/clearday/clearday-api/internal/middleware"
	"github.com/clearday/clearday-api/internal/services"
)

type AssistantHandler struct {
	assistantService *services.AssistantService
}

func NewAssistantHandler(assistantService *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
	}
}

// Suggest returns task suggestions for free text
func (h *AssistantHandler) Suggest(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SuggestRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": h.assistantService.Suggest(req.Text),
	})
}
