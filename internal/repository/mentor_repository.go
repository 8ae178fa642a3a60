package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/pagination"
)

const userColumns = `uid, email, display_name, photo_url, is_mentor, is_mentee,
mentor_profile, mentee_profile, created_at, updated_at`

var mentorOrderColumns = map[string]string{
	"displayName": "display_name",
	"createdAt":   "created_at",
}

// MentorRepository serves the mentor directory.
type MentorRepository struct {
	db      *sqlx.DB
	streams *Streams
}

// NewMentorRepository creates the repository.
func NewMentorRepository(db *sqlx.DB, streams *Streams) *MentorRepository {
	return &MentorRepository{db: db, streams: streams}
}

// ListDirectory returns one page of the mentor directory plus the total
// count, excluding the viewing user.
func (r *MentorRepository) ListDirectory(ctx context.Context, excludeUID string, opts pagination.Options) ([]models.User, int, error) {
	orderColumn, ok := mentorOrderColumns[opts.OrderBy]
	if !ok {
		return nil, 0, appErrors.Validation(fmt.Sprintf("cannot order mentors by %q", opts.OrderBy))
	}
	direction := "ASC"
	if opts.OrderDirection == pagination.OrderDesc {
		direction = "DESC"
	}
	offset := (opts.Page - 1) * opts.Limit

	query := fmt.Sprintf(`SELECT %s FROM users WHERE is_mentor AND uid <> $1
ORDER BY %s %s, uid %s LIMIT $2 OFFSET $3`, userColumns, orderColumn, direction, direction)
	mentors := []models.User{}
	if err := r.db.SelectContext(ctx, &mentors, query, excludeUID, opts.Limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list mentor directory: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users WHERE is_mentor AND uid <> $1", excludeUID); err != nil {
		return nil, 0, fmt.Errorf("count mentor directory: %w", err)
	}
	return mentors, total, nil
}

// ScrollDirectory returns mentors after the cursor position, ordered by
// display name then uid. It fetches one extra row to learn whether more
// remain; the caller derives the next cursor from the last returned row.
func (r *MentorRepository) ScrollDirectory(ctx context.Context, excludeUID string, cursor pagination.Cursor, limit int) ([]models.User, bool, error) {
	afterName, afterUID, err := pagination.DecodeCursor(cursor)
	if err != nil {
		return nil, false, err
	}

	query := fmt.Sprintf(`SELECT %s FROM users
WHERE is_mentor AND uid <> $1 AND (display_name, uid) > ($2, $3)
ORDER BY display_name ASC, uid ASC LIMIT $4`, userColumns)
	mentors := []models.User{}
	if err := r.db.SelectContext(ctx, &mentors, query, excludeUID, afterName, afterUID, limit+1); err != nil {
		return nil, false, fmt.Errorf("scroll mentor directory: %w", err)
	}

	hasMore := len(mentors) > limit
	if hasMore {
		mentors = mentors[:limit]
	}
	return mentors, hasMore, nil
}

// WatchDirectory streams snapshots of the first directory page.
func (r *MentorRepository) WatchDirectory(ctx context.Context, excludeUID string, opts pagination.Options) <-chan stream.Snapshot[[]models.User] {
	return stream.Watch(ctx, r.streams.Hub, r.streams.Options(stream.TopicUsers), func(ctx context.Context) ([]models.User, error) {
		mentors, _, err := r.ListDirectory(ctx, excludeUID, opts)
		if err != nil {
			return nil, asTransient(err, "could not load mentor directory")
		}
		return mentors, nil
	})
}
