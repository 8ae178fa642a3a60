package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/export"
	"github.com/mentorlink/mentorlink-api/pkg/storage"
	"github.com/mentorlink/mentorlink-api/pkg/validation"
)

// Export formats accepted by the history endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type exportRequestLister interface {
	ListForMentor(ctx context.Context, mentorID string) ([]models.MentorshipRequest, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download. DownloadToken is set only when the file
// was archived for later re-download.
type ExportFile struct {
	Content       []byte
	Filename      string
	ContentType   string
	DownloadToken string
	TokenExpires  time.Time
}

// ExportService renders a mentor's request history for download.
type ExportService struct {
	requests exportRequestLister
	identity identityProvider
	csv      csvRenderer
	pdf      pdfRenderer
	archive  *storage.Archive
	signer   *storage.Signer
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(requests exportRequestLister, identity identityProvider, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{requests: requests, identity: identity, csv: csv, pdf: pdf, logger: logger}
}

// EnableArchive keeps a copy of every rendered file on disk and hands out
// signed re-download tokens for it.
func (s *ExportService) EnableArchive(archive *storage.Archive, signer *storage.Signer) {
	s.archive = archive
	s.signer = signer
}

// RequestHistory renders the authenticated mentor's full request history in
// the requested format.
func (s *ExportService) RequestHistory(ctx context.Context, format string) (*ExportFile, error) {
	mentorID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.AssertUID(mentorID, "mentor id"); err != nil {
		return nil, err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Validation(fmt.Sprintf("unsupported export format %q", format))
	}

	requests, err := s.requests.ListForMentor(ctx, mentorID)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Transient(err, "could not load request history")
	}

	dataset := buildHistoryDataset(requests)
	timestamp := time.Now().UTC().Format("20060102_150405")

	var file *ExportFile
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		file = &ExportFile{
			Content:     content,
			Filename:    fmt.Sprintf("mentorship_requests_%s.csv", timestamp),
			ContentType: "text/csv",
		}
	default:
		content, err := s.pdf.Render(dataset, "Mentorship Requests")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		file = &ExportFile{
			Content:     content,
			Filename:    fmt.Sprintf("mentorship_requests_%s.pdf", timestamp),
			ContentType: "application/pdf",
		}
	}

	s.archiveFile(file)
	return file, nil
}

// archiveFile stores a copy and attaches a signed download token. Archiving is
// best effort: a failure is logged and the fresh render still goes out.
func (s *ExportService) archiveFile(file *ExportFile) {
	if s.archive == nil || s.signer == nil {
		return
	}
	if err := s.archive.Save(file.Filename, file.Content); err != nil {
		s.logger.Sugar().Warnw("could not archive export", "filename", file.Filename, "error", err)
		return
	}
	token, expiresAt, err := s.signer.Sign(file.Filename)
	if err != nil {
		s.logger.Sugar().Warnw("could not sign export token", "filename", file.Filename, "error", err)
		return
	}
	file.DownloadToken = token
	file.TokenExpires = expiresAt
}

// Download re-serves an archived export referenced by a signed token.
func (s *ExportService) Download(ctx context.Context, token string) (*ExportFile, error) {
	if s.archive == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export downloads are not enabled")
	}
	if _, err := s.identity.CurrentUserID(ctx); err != nil {
		return nil, err
	}
	filename, err := s.signer.Verify(token)
	if err != nil {
		return nil, appErrors.Validation("download token is invalid or expired")
	}
	content, err := s.archive.Read(filename)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
	}

	contentType := "application/pdf"
	if strings.HasSuffix(filename, ".csv") {
		contentType = "text/csv"
	}
	return &ExportFile{Content: content, Filename: filename, ContentType: contentType}, nil
}

func buildHistoryDataset(requests []models.MentorshipRequest) export.Dataset {
	dataset := export.Dataset{
		Headers: []string{"Request ID", "Mentee", "Status", "Message", "Goals", "Created At", "Decided At"},
	}
	for _, request := range requests {
		decidedAt := ""
		switch {
		case request.ApprovedAt != nil:
			decidedAt = request.ApprovedAt.UTC().Format(time.RFC3339)
		case request.RejectedAt != nil:
			decidedAt = request.RejectedAt.UTC().Format(time.RFC3339)
		}
		dataset.AddRow(map[string]string{
			"Request ID": request.ID,
			"Mentee":     request.MenteeName,
			"Status":     string(request.Status),
			"Message":    request.Message,
			"Goals":      strings.Join(request.Goals, "; "),
			"Created At": request.CreatedAt.UTC().Format(time.RFC3339),
			"Decided At": decidedAt,
		})
	}
	return dataset
}
