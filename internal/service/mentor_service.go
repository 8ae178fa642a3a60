package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/pagination"
	"github.com/mentorlink/mentorlink-api/pkg/validation"
)

type mentorDirectory interface {
	ListDirectory(ctx context.Context, excludeUID string, opts pagination.Options) ([]models.User, int, error)
	ScrollDirectory(ctx context.Context, excludeUID string, cursor pagination.Cursor, limit int) ([]models.User, bool, error)
	WatchDirectory(ctx context.Context, excludeUID string, opts pagination.Options) <-chan stream.Snapshot[[]models.User]
}

// MentorPage is one offset page of the directory.
type MentorPage struct {
	Mentors []models.User    `json:"mentors"`
	Meta    *pagination.Meta `json:"meta"`
}

// MentorScroll is one cursor slice of the directory.
type MentorScroll struct {
	Mentors    []models.User     `json:"mentors"`
	NextCursor pagination.Cursor `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

// MentorService serves the mentor directory in its three shapes: one-shot
// pages, cursor scroll and live snapshots.
type MentorService struct {
	directory mentorDirectory
	identity  identityProvider
	logger    *zap.Logger

	directoryPageSize int
	maxPageSize       int
}

// NewMentorService constructs the service.
func NewMentorService(directory mentorDirectory, identity identityProvider, logger *zap.Logger, directoryPageSize, maxPageSize int) *MentorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if directoryPageSize <= 0 {
		directoryPageSize = 12
	}
	if maxPageSize <= 0 {
		maxPageSize = 50
	}
	return &MentorService{
		directory:         directory,
		identity:          identity,
		logger:            logger,
		directoryPageSize: directoryPageSize,
		maxPageSize:       maxPageSize,
	}
}

// ListMentors returns one page of the directory, excluding the caller.
// Omitted options default to page 1, the configured page size, display name
// ascending.
func (s *MentorService) ListMentors(ctx context.Context, opts pagination.Options) (*MentorPage, error) {
	uid, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}

	defaults := pagination.Options{Page: 1, Limit: s.directoryPageSize, OrderBy: "displayName", OrderDirection: pagination.OrderAsc}
	normalized, err := pagination.Normalize(opts, defaults)
	if err != nil {
		return nil, err
	}
	if normalized.Limit > s.maxPageSize {
		normalized.Limit = s.maxPageSize
	}

	mentors, total, err := s.directory.ListDirectory(ctx, uid, normalized)
	if err != nil {
		return nil, s.asTransient(err, "could not list mentors")
	}
	meta := pagination.NewMeta(normalized.Page, normalized.Limit, total)
	return &MentorPage{Mentors: mentors, Meta: &meta}, nil
}

// ScrollMentors returns the next directory slice after the cursor. The next
// cursor points at the last returned mentor and is empty when the directory
// is exhausted.
func (s *MentorService) ScrollMentors(ctx context.Context, cursor pagination.Cursor, limit int) (*MentorScroll, error) {
	uid, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.directoryPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	mentors, hasMore, err := s.directory.ScrollDirectory(ctx, uid, cursor, limit)
	if err != nil {
		return nil, s.asTransient(err, "could not scroll mentors")
	}

	scroll := &MentorScroll{Mentors: mentors, HasMore: hasMore}
	if hasMore && len(mentors) > 0 {
		last := mentors[len(mentors)-1]
		scroll.NextCursor = pagination.EncodeCursor(last.DisplayName, last.UID)
	}
	return scroll, nil
}

// WatchMentors streams snapshots of the first directory page.
func (s *MentorService) WatchMentors(ctx context.Context) (<-chan stream.Snapshot[[]models.User], error) {
	uid, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.AssertUID(uid, "user id"); err != nil {
		return nil, err
	}
	opts := pagination.Options{Page: 1, Limit: s.directoryPageSize, OrderBy: "displayName", OrderDirection: pagination.OrderAsc}
	return s.directory.WatchDirectory(ctx, uid, opts), nil
}

func (s *MentorService) asTransient(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Transient(err, message)
}
