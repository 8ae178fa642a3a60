package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/service"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	"github.com/mentorlink/mentorlink-api/pkg/pagination"
)

type mentorServiceMock struct {
	page       *service.MentorPage
	scroll     *service.MentorScroll
	err        error
	lastCursor pagination.Cursor
	lastLimit  int
}

func (m *mentorServiceMock) ListMentors(ctx context.Context, opts pagination.Options) (*service.MentorPage, error) {
	return m.page, m.err
}

func (m *mentorServiceMock) ScrollMentors(ctx context.Context, cursor pagination.Cursor, limit int) (*service.MentorScroll, error) {
	m.lastCursor = cursor
	m.lastLimit = limit
	return m.scroll, m.err
}

func (m *mentorServiceMock) WatchMentors(ctx context.Context) (<-chan stream.Snapshot[[]models.User], error) {
	return nil, nil
}

func TestMentorHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &mentorServiceMock{page: &service.MentorPage{
		Mentors: []models.User{{UID: "mentor-100", DisplayName: "Avery"}},
		Meta:    &pagination.Meta{Page: 1, Limit: 12, Total: 1, TotalPages: 1},
	}}
	handler := NewMentorHandler(mock, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/mentors", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Avery")
}

func TestMentorHandlerScrollForwardsCursor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &mentorServiceMock{scroll: &service.MentorScroll{HasMore: false}}
	handler := NewMentorHandler(mock, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/mentors/scroll?cursor=abc&limit=8", nil)

	handler.Scroll(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pagination.Cursor("abc"), mock.lastCursor)
	assert.Equal(t, 8, mock.lastLimit)
}

func TestMentorHandlerScrollRejectsBadLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMentorHandler(&mentorServiceMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/mentors/scroll?limit=-3", nil)

	handler.Scroll(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
