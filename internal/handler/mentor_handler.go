package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/service"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/pagination"
	"github.com/mentorlink/mentorlink-api/pkg/response"
	"github.com/mentorlink/mentorlink-api/pkg/validation"
)

type mentorDirectoryService interface {
	ListMentors(ctx context.Context, opts pagination.Options) (*service.MentorPage, error)
	ScrollMentors(ctx context.Context, cursor pagination.Cursor, limit int) (*service.MentorScroll, error)
	WatchMentors(ctx context.Context) (<-chan stream.Snapshot[[]models.User], error)
}

// MentorHandler serves the mentor directory.
type MentorHandler struct {
	service mentorDirectoryService
	metrics *service.MetricsService
}

func NewMentorHandler(svc mentorDirectoryService, metrics *service.MetricsService) *MentorHandler {
	return &MentorHandler{service: svc, metrics: metrics}
}

// List godoc
// @Summary List mentors, paginated
// @Tags Mentors
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param order_by query string false "Sort field"
// @Param order_direction query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	opts, err := bindPaginationQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.service.ListMentors(c.Request.Context(), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page.Mentors, page.Meta)
}

// Scroll godoc
// @Summary Scroll the mentor directory with an opaque cursor
// @Tags Mentors
// @Produce json
// @Param cursor query string false "Cursor from the previous page"
// @Param limit query int false "Batch size"
// @Success 200 {object} response.Envelope
// @Router /mentors/scroll [get]
func (h *MentorHandler) Scroll(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Validation("limit must be an integer"))
			return
		}
		if err := validation.AssertPositiveInteger(parsed, "limit"); err != nil {
			response.Error(c, err)
			return
		}
		limit = parsed
	}
	scroll, err := h.service.ScrollMentors(c.Request.Context(), pagination.Cursor(c.Query("cursor")), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scroll, nil)
}

// Watch godoc
// @Summary Stream the mentor directory as server-sent events
// @Tags Mentors
// @Produce text/event-stream
// @Router /mentors/watch [get]
func (h *MentorHandler) Watch(c *gin.Context) {
	ch, err := h.service.WatchMentors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "mentor_directory", h.metrics, ch)
}
