package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/service"
	"github.com/mentorlink/mentorlink-api/pkg/response"
)

type historyExporter interface {
	RequestHistory(ctx context.Context, format string) (*service.ExportFile, error)
	Download(ctx context.Context, token string) (*service.ExportFile, error)
}

// ExportHandler streams rendered request history downloads.
type ExportHandler struct {
	service historyExporter
}

func NewExportHandler(svc historyExporter) *ExportHandler {
	return &ExportHandler{service: svc}
}

// RequestHistory godoc
// @Summary Download the mentor's request history
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /mentor/requests/export [get]
func (h *ExportHandler) RequestHistory(c *gin.Context) {
	file, err := h.service.RequestHistory(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if file.DownloadToken != "" {
		c.Header("X-Export-Token", file.DownloadToken)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// Download godoc
// @Summary Re-download an archived export by signed token
// @Tags Export
// @Produce text/csv
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /mentor/requests/export/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.service.Download(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
