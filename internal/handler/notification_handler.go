package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/response"
)

const defaultNotificationLimit = 20

type notificationLister interface {
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}

// NotificationHandler serves the notification inbox.
type NotificationHandler struct {
	service notificationLister
}

func NewNotificationHandler(svc notificationLister) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// List godoc
// @Summary List the authenticated user's notifications, newest first
// @Tags Notifications
// @Produce json
// @Param limit query int false "Maximum entries to return"
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Validation("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	notifications, err := h.service.List(c.Request.Context(), claims.UID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notifications, nil)
}
