package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/service"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// streamSSE forwards snapshots to the client as server-sent events until the
// stream completes or the client goes away. A terminal stream error is sent
// as an "error" event so the client can distinguish it from a clean close.
func streamSSE[T any](c *gin.Context, name string, metrics *service.MetricsService, ch <-chan stream.Snapshot[T]) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	closeWatcher := metrics.WatcherOpened(name)
	defer closeWatcher()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case snapshot, ok := <-ch:
			if !ok {
				return false
			}
			if snapshot.Err != nil {
				c.SSEvent("error", appErrors.FromError(snapshot.Err))
				return false
			}
			metrics.SnapshotEmitted(name)
			c.SSEvent("snapshot", snapshot.Data)
			return true
		}
	})
}
