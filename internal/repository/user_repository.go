package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// UserRepository provides persistence for user profiles.
type UserRepository struct {
	db      *sqlx.DB
	streams *Streams
}

// NewUserRepository creates the repository.
func NewUserRepository(db *sqlx.DB, streams *Streams) *UserRepository {
	return &UserRepository{db: db, streams: streams}
}

// FindByID returns a user by uid.
func (r *UserRepository) FindByID(ctx context.Context, uid string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE uid = $1", userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the editable profile fields. Nil sub-profiles leave
// the stored documents untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, uid string, form models.ProfileUpdateForm) (*models.User, error) {
	now := time.Now().UTC()
	query := fmt.Sprintf(`UPDATE users SET
display_name = COALESCE(NULLIF($2, ''), display_name),
photo_url = COALESCE(NULLIF($3, ''), photo_url),
mentor_profile = COALESCE($4, mentor_profile),
mentee_profile = COALESCE($5, mentee_profile),
updated_at = $6
WHERE uid = $1
RETURNING %s`, userColumns)

	var user models.User
	err := r.db.QueryRowxContext(ctx, query, uid, form.DisplayName, form.PhotoURL, form.MentorProfile, form.MenteeProfile, now).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &user, nil
}

// LinkMentorCalendar records the mentor's cal.com username inside the mentor
// profile document, creating the document when absent.
func (r *UserRepository) LinkMentorCalendar(ctx context.Context, uid, calUsername string) (*models.User, error) {
	now := time.Now().UTC()
	query := fmt.Sprintf(`UPDATE users SET
mentor_profile = COALESCE(mentor_profile, '{}'::jsonb) || jsonb_build_object('calUsername', $2::text),
updated_at = $3
WHERE uid = $1 AND is_mentor
RETURNING %s`, userColumns)

	var user models.User
	err := r.db.QueryRowxContext(ctx, query, uid, calUsername, now).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, fmt.Errorf("link mentor calendar: %w", err)
	}
	return &user, nil
}

// Watch streams snapshots of a user profile. A missing user emits nil.
func (r *UserRepository) Watch(ctx context.Context, uid string) <-chan stream.Snapshot[*models.User] {
	return stream.Watch(ctx, r.streams.Hub, r.streams.Options(stream.TopicUsers), func(ctx context.Context) (*models.User, error) {
		user, err := r.FindByID(ctx, uid)
		if err != nil {
			if appErrors.IsKind(err, appErrors.ErrNotFound) {
				return nil, nil
			}
			return nil, asTransient(err, "could not load user profile")
		}
		return user, nil
	})
}
