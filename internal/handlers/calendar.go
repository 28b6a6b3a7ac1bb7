package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/clearday/clearday-api/internal/errors"
	"github.com/clearday/clearday-api/internal/middleware"
	"github.com/clearday/clearday-api/internal/services"
)

type CalendarHandler struct {
	calendarService *services.CalendarService
}

func NewCalendarHandler(calendarService *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

// Sync reports how many of the caller's open tasks would be pushed to an
// external calendar
func (h *CalendarHandler) Sync(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := h.calendarService.Sync(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to sync calendar")
		return
	}

	c.JSON(http.StatusOK, result)
}
