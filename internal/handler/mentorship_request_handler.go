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

type mentorshipRequestService interface {
	RequestMentorship(ctx context.Context, form models.MentorshipRequestForm) (*models.MentorshipRequest, error)
	GetRequest(ctx context.Context, id string) (*models.MentorshipRequest, error)
	Approve(ctx context.Context, id string) (*models.MentorshipRequest, error)
	Reject(ctx context.Context, id string, form models.RejectRequestForm) (*models.MentorshipRequest, error)
	MarkAsCompleted(ctx context.Context, id string) (*models.MentorshipRequest, error)
	RecordBookingURL(ctx context.Context, id string, form models.BookingURLForm) error
	HasOutstandingRequest(ctx context.Context, mentorID string) (bool, error)
	HasCalendarAccess(ctx context.Context, mentorID string) (bool, error)
	ObserveCalendarAccess(ctx context.Context, mentorID string) (<-chan stream.Snapshot[bool], error)
	PaginateMentorRequests(ctx context.Context, opts pagination.Options) ([]models.MentorshipRequest, *pagination.Meta, error)
	ListMenteeRequests(ctx context.Context) ([]models.MentorshipRequest, error)
	WatchMentorRequests(ctx context.Context) (<-chan stream.Snapshot[[]models.MentorshipRequest], error)
	WatchMenteeRequests(ctx context.Context) (<-chan stream.Snapshot[[]models.MentorshipRequest], error)
	WatchMenteeRequestFeed(ctx context.Context) (<-chan stream.Snapshot[[]models.FeedItem], error)
	WatchRequest(ctx context.Context, id string) <-chan stream.Snapshot[*models.MentorshipRequest]
}

// MentorshipRequestHandler exposes the request lifecycle endpoints.
type MentorshipRequestHandler struct {
	service mentorshipRequestService
	metrics *service.MetricsService
}

// NewMentorshipRequestHandler builds a new handler.
func NewMentorshipRequestHandler(svc mentorshipRequestService, metrics *service.MetricsService) *MentorshipRequestHandler {
	return &MentorshipRequestHandler{service: svc, metrics: metrics}
}

// Create godoc
// @Summary Submit a mentorship request
// @Tags MentorshipRequests
// @Accept json
// @Produce json
// @Param payload body models.MentorshipRequestForm true "Request payload"
// @Success 201 {object} response.Envelope
// @Router /requests [post]
func (h *MentorshipRequestHandler) Create(c *gin.Context) {
	var form models.MentorshipRequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}
	request, err := h.service.RequestMentorship(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// Get godoc
// @Summary Get a mentorship request
// @Tags MentorshipRequests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id} [get]
func (h *MentorshipRequestHandler) Get(c *gin.Context) {
	request, err := h.service.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Watch godoc
// @Summary Stream a mentorship request as server-sent events
// @Tags MentorshipRequests
// @Produce text/event-stream
// @Param id path string true "Request ID"
// @Router /requests/{id}/watch [get]
func (h *MentorshipRequestHandler) Watch(c *gin.Context) {
	ch := h.service.WatchRequest(c.Request.Context(), c.Param("id"))
	streamSSE(c, "request", h.metrics, ch)
}

// Approve godoc
// @Summary Approve a pending mentorship request
// @Tags MentorshipRequests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/approve [post]
func (h *MentorshipRequestHandler) Approve(c *gin.Context) {
	request, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Reject godoc
// @Summary Reject a pending mentorship request
// @Tags MentorshipRequests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body models.RejectRequestForm false "Optional rejection reason"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/reject [post]
func (h *MentorshipRequestHandler) Reject(c *gin.Context) {
	var form models.RejectRequestForm
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&form); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
			return
		}
	}
	request, err := h.service.Reject(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// Complete godoc
// @Summary Mark an approved mentorship request as done
// @Tags MentorshipRequests
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/complete [post]
func (h *MentorshipRequestHandler) Complete(c *gin.Context) {
	request, err := h.service.MarkAsCompleted(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

// SaveBookingURL godoc
// @Summary Store the booking link for a request
// @Tags MentorshipRequests
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body models.BookingURLForm true "Booking URL"
// @Success 204
// @Router /requests/{id}/booking-url [put]
func (h *MentorshipRequestHandler) SaveBookingURL(c *gin.Context) {
	var form models.BookingURLForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking url payload"))
		return
	}
	if err := h.service.RecordBookingURL(c.Request.Context(), c.Param("id"), form); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CalendarAccess godoc
// @Summary Check whether the mentee may book time with a mentor
// @Tags MentorshipRequests
// @Produce json
// @Param mentor_id query string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /requests/calendar-access [get]
func (h *MentorshipRequestHandler) CalendarAccess(c *gin.Context) {
	unlocked, err := h.service.HasCalendarAccess(c.Request.Context(), c.Query("mentor_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"is_unlocked": unlocked}, nil)
}

// WatchCalendarAccess godoc
// @Summary Stream booking access changes as server-sent events
// @Tags MentorshipRequests
// @Produce text/event-stream
// @Param mentor_id query string true "Mentor ID"
// @Router /requests/calendar-access/watch [get]
func (h *MentorshipRequestHandler) WatchCalendarAccess(c *gin.Context) {
	ch, err := h.service.ObserveCalendarAccess(c.Request.Context(), c.Query("mentor_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "calendar_access", h.metrics, ch)
}

// Outstanding godoc
// @Summary Check for an outstanding request to a mentor
// @Tags MentorshipRequests
// @Produce json
// @Param mentor_id query string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /requests/outstanding [get]
func (h *MentorshipRequestHandler) Outstanding(c *gin.Context) {
	outstanding, err := h.service.HasOutstandingRequest(c.Request.Context(), c.Query("mentor_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"outstanding": outstanding}, nil)
}

// ListMine godoc
// @Summary List the authenticated mentee's requests
// @Tags MentorshipRequests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests/mine [get]
func (h *MentorshipRequestHandler) ListMine(c *gin.Context) {
	requests, err := h.service.ListMenteeRequests(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// WatchMine godoc
// @Summary Stream the mentee's own requests as server-sent events
// @Tags MentorshipRequests
// @Produce text/event-stream
// @Router /requests/mine/watch [get]
func (h *MentorshipRequestHandler) WatchMine(c *gin.Context) {
	ch, err := h.service.WatchMenteeRequests(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "mentee_requests", h.metrics, ch)
}

// WatchFeed godoc
// @Summary Stream the mentee's request feed as server-sent events
// @Tags MentorshipRequests
// @Produce text/event-stream
// @Router /requests/feed [get]
func (h *MentorshipRequestHandler) WatchFeed(c *gin.Context) {
	ch, err := h.service.WatchMenteeRequestFeed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "mentee_feed", h.metrics, ch)
}

// ListForMentor godoc
// @Summary List the authenticated mentor's requests, paginated
// @Tags MentorshipRequests
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param order_by query string false "Sort field"
// @Param order_direction query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /mentor/requests [get]
func (h *MentorshipRequestHandler) ListForMentor(c *gin.Context) {
	opts, err := bindPaginationQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	requests, meta, err := h.service.PaginateMentorRequests(c.Request.Context(), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, meta)
}

// WatchForMentor godoc
// @Summary Stream the mentor's inbound requests as server-sent events
// @Tags MentorshipRequests
// @Produce text/event-stream
// @Router /mentor/requests/watch [get]
func (h *MentorshipRequestHandler) WatchForMentor(c *gin.Context) {
	ch, err := h.service.WatchMentorRequests(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "mentor_requests", h.metrics, ch)
}

// bindPaginationQuery reads pagination query parameters. Parameters that are
// present must be positive integers; absent ones stay zero so the service
// applies its defaults.
func bindPaginationQuery(c *gin.Context) (pagination.Options, error) {
	opts := pagination.Options{
		OrderBy:        c.Query("order_by"),
		OrderDirection: c.Query("order_direction"),
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return pagination.Options{}, appErrors.Validation("page must be an integer")
		}
		if err := validation.AssertPositiveInteger(page, "page"); err != nil {
			return pagination.Options{}, err
		}
		opts.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return pagination.Options{}, appErrors.Validation("limit must be an integer")
		}
		if err := validation.AssertPositiveInteger(limit, "limit"); err != nil {
			return pagination.Options{}, err
		}
		opts.Limit = limit
	}
	return opts, nil
}
