package handler

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

func collectSSE(t *testing.T, url string) []string {
	t.Helper()
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var events []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			events = append(events, strings.TrimSpace(strings.TrimPrefix(line, "event:")))
		}
	}
	return events
}

func TestStreamSSEEmitsSnapshotsUntilClose(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ch := make(chan stream.Snapshot[string], 3)
	ch <- stream.Snapshot[string]{Data: "first"}
	ch <- stream.Snapshot[string]{Data: "second"}
	close(ch)

	router := gin.New()
	router.GET("/watch", func(c *gin.Context) {
		streamSSE(c, "test", nil, ch)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	events := collectSSE(t, server.URL+"/watch")
	assert.Equal(t, []string{"snapshot", "snapshot"}, events)
}

func TestStreamSSETerminalErrorBecomesErrorEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ch := make(chan stream.Snapshot[string], 2)
	ch <- stream.Snapshot[string]{Data: "only"}
	ch <- stream.Snapshot[string]{Err: appErrors.Transient(assert.AnError, "backend unreachable")}
	close(ch)

	router := gin.New()
	router.GET("/watch", func(c *gin.Context) {
		streamSSE(c, "test", nil, ch)
	})
	server := httptest.NewServer(router)
	defer server.Close()

	events := collectSSE(t, server.URL+"/watch")
	assert.Equal(t, []string{"snapshot", "error"}, events)
}
