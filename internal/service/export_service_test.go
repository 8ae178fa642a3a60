package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/internal/models"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/storage"
)

type historyListerFake struct {
	requests []models.MentorshipRequest
	err      error
}

func (f *historyListerFake) ListForMentor(ctx context.Context, mentorID string) ([]models.MentorshipRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.requests, nil
}

func historyFixture() []models.MentorshipRequest {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	approvedAt := now.Add(time.Hour)
	return []models.MentorshipRequest{
		{
			ID:         "req-1",
			MenteeName: "Mia",
			Status:     models.StatusApproved,
			Message:    "help with Go",
			Goals:      []string{"concurrency", "testing"},
			CreatedAt:  now,
			ApprovedAt: &approvedAt,
		},
		{
			ID:         "req-2",
			MenteeName: "Noor",
			Status:     models.StatusPending,
			Message:    "help with SQL",
			CreatedAt:  now,
		},
	}
}

func TestRequestHistoryCSV(t *testing.T) {
	lister := &historyListerFake{requests: historyFixture()}
	service := NewExportService(lister, identityStub{uid: "mentor-100"}, nil, nil, nil)

	file, err := service.RequestHistory(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Content)
	assert.Contains(t, body, "Request ID,Mentee,Status")
	assert.Contains(t, body, "req-1,Mia,approved")
	assert.Contains(t, body, "concurrency; testing")
	assert.Contains(t, body, "2026-08-30T11:00:00Z")
}

func TestRequestHistoryPDF(t *testing.T) {
	lister := &historyListerFake{requests: historyFixture()}
	service := NewExportService(lister, identityStub{uid: "mentor-100"}, nil, nil, nil)

	file, err := service.RequestHistory(context.Background(), "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestRequestHistoryRejectsUnknownFormat(t *testing.T) {
	service := NewExportService(&historyListerFake{}, identityStub{uid: "mentor-100"}, nil, nil, nil)

	_, err := service.RequestHistory(context.Background(), "xlsx")
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}

func TestRequestHistoryArchivesAndSignsDownloads(t *testing.T) {
	archive, err := storage.NewArchive(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSigner("secret", time.Hour)

	service := NewExportService(&historyListerFake{requests: historyFixture()}, identityStub{uid: "mentor-100"}, nil, nil, nil)
	service.EnableArchive(archive, signer)

	file, err := service.RequestHistory(context.Background(), "csv")
	require.NoError(t, err)
	require.NotEmpty(t, file.DownloadToken)

	again, err := service.Download(context.Background(), file.DownloadToken)
	require.NoError(t, err)
	assert.Equal(t, file.Filename, again.Filename)
	assert.Equal(t, string(file.Content), string(again.Content))
	assert.Equal(t, "text/csv", again.ContentType)
}

func TestDownloadRejectsBadToken(t *testing.T) {
	archive, err := storage.NewArchive(t.TempDir())
	require.NoError(t, err)

	service := NewExportService(&historyListerFake{}, identityStub{uid: "mentor-100"}, nil, nil, nil)
	service.EnableArchive(archive, storage.NewSigner("secret", time.Hour))

	_, err = service.Download(context.Background(), "garbage")
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}

func TestDownloadWithoutArchiveEnabled(t *testing.T) {
	service := NewExportService(&historyListerFake{}, identityStub{uid: "mentor-100"}, nil, nil, nil)

	_, err := service.Download(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.ErrNotFound))
}

func TestRequestHistoryEmptyHistoryStillRenders(t *testing.T) {
	service := NewExportService(&historyListerFake{}, identityStub{uid: "mentor-100"}, nil, nil, nil)

	file, err := service.RequestHistory(context.Background(), "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	assert.Len(t, lines, 1, "header only")
}
