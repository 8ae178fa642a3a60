package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/service"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/response"
)

type userProfileService interface {
	CurrentProfile(ctx context.Context) (*models.User, error)
	ObserveProfile(ctx context.Context, uid string) (*models.User, error)
	ApplyProfileChanges(ctx context.Context, form models.ProfileUpdateForm) (*models.User, error)
	LinkMentorCalendar(ctx context.Context, form models.LinkCalendarForm) (*models.User, error)
	WatchProfile(ctx context.Context, uid string) (<-chan stream.Snapshot[*models.User], error)
}

// UserHandler serves profile endpoints.
type UserHandler struct {
	service userProfileService
	metrics *service.MetricsService
}

func NewUserHandler(svc userProfileService, metrics *service.MetricsService) *UserHandler {
	return &UserHandler{service: svc, metrics: metrics}
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.CurrentProfile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Update godoc
// @Summary Update the authenticated user's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.ProfileUpdateForm true "Profile changes"
// @Success 200 {object} response.Envelope
// @Router /users/me [put]
func (h *UserHandler) Update(c *gin.Context) {
	var form models.ProfileUpdateForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}
	user, err := h.service.ApplyProfileChanges(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// LinkCalendar godoc
// @Summary Link the mentor's cal.com username
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.LinkCalendarForm true "Calendar username"
// @Success 200 {object} response.Envelope
// @Router /users/me/calendar [post]
func (h *UserHandler) LinkCalendar(c *gin.Context) {
	var form models.LinkCalendarForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid calendar payload"))
		return
	}
	user, err := h.service.LinkMentorCalendar(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Get godoc
// @Summary Get a user's public profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.ObserveProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Watch godoc
// @Summary Stream a user's profile as server-sent events
// @Tags Users
// @Produce text/event-stream
// @Param id path string true "User ID"
// @Router /users/{id}/watch [get]
func (h *UserHandler) Watch(c *gin.Context) {
	ch, err := h.service.WatchProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "user_profile", h.metrics, ch)
}
