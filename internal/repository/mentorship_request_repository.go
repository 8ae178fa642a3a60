package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/pagination"
)

const requestColumns = `id, mentee_id, mentor_id, mentee_name, mentor_name, status, message, goals,
experience_level, preferred_meeting_frequency, rejection_reason, calendar_access, booking_url,
created_at, updated_at, approved_at, rejected_at, completed_at`

// requestOrderColumns whitelists sortable columns for paginated listings.
var requestOrderColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"status":    "status",
}

// MentorshipRequestRepository provides persistence for mentorship requests
// and change-driven snapshot streams over them.
type MentorshipRequestRepository struct {
	db      *sqlx.DB
	streams *Streams
}

// NewMentorshipRequestRepository creates the repository.
func NewMentorshipRequestRepository(db *sqlx.DB, streams *Streams) *MentorshipRequestRepository {
	return &MentorshipRequestRepository{db: db, streams: streams}
}

// Create inserts a new pending request.
func (r *MentorshipRequestRepository) Create(ctx context.Context, request *models.MentorshipRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.StatusPending
	}
	now := time.Now().UTC()
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now

	query := `INSERT INTO mentorship_requests (id, mentee_id, mentor_id, mentee_name, mentor_name, status, message, goals,
experience_level, preferred_meeting_frequency, created_at, updated_at)
VALUES (:id, :mentee_id, :mentor_id, :mentee_name, :mentor_name, :status, :message, :goals,
:experience_level, :preferred_meeting_frequency, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create mentorship request: %w", err)
	}
	return nil
}

// FindByID returns a request by identifier.
func (r *MentorshipRequestRepository) FindByID(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM mentorship_requests WHERE id = $1", requestColumns)
	var request models.MentorshipRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentorship request not found")
		}
		return nil, fmt.Errorf("find mentorship request: %w", err)
	}
	return &request, nil
}

// ListForMentor returns every request addressed to the mentor, newest first.
func (r *MentorshipRequestRepository) ListForMentor(ctx context.Context, mentorID string) ([]models.MentorshipRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM mentorship_requests WHERE mentor_id = $1 ORDER BY created_at DESC", requestColumns)
	requests := []models.MentorshipRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, mentorID); err != nil {
		return nil, fmt.Errorf("list mentor requests: %w", err)
	}
	return requests, nil
}

// ListForMentee returns every request the mentee has sent, newest first.
func (r *MentorshipRequestRepository) ListForMentee(ctx context.Context, menteeID string) ([]models.MentorshipRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM mentorship_requests WHERE mentee_id = $1 ORDER BY created_at DESC", requestColumns)
	requests := []models.MentorshipRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, menteeID); err != nil {
		return nil, fmt.Errorf("list mentee requests: %w", err)
	}
	return requests, nil
}

// ListForMentorPage returns one page of a mentor's requests plus the total
// count. The count is re-read on every call, so page boundaries may shift
// between calls when rows are inserted concurrently.
func (r *MentorshipRequestRepository) ListForMentorPage(ctx context.Context, mentorID string, opts pagination.Options) ([]models.MentorshipRequest, int, error) {
	orderColumn, ok := requestOrderColumns[opts.OrderBy]
	if !ok {
		return nil, 0, appErrors.Validation(fmt.Sprintf("cannot order requests by %q", opts.OrderBy))
	}
	direction := "DESC"
	if opts.OrderDirection == pagination.OrderAsc {
		direction = "ASC"
	}
	offset := (opts.Page - 1) * opts.Limit

	query := fmt.Sprintf(`SELECT %s FROM mentorship_requests WHERE mentor_id = $1
ORDER BY %s %s, id %s LIMIT $2 OFFSET $3`, requestColumns, orderColumn, direction, direction)
	requests := []models.MentorshipRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, mentorID, opts.Limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list mentor requests page: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM mentorship_requests WHERE mentor_id = $1", mentorID); err != nil {
		return nil, 0, fmt.Errorf("count mentor requests: %w", err)
	}
	return requests, total, nil
}

// Approve transitions a pending request to approved and unlocks calendar
// access. The status check and the write are a single statement, so two
// concurrent decisions cannot both win.
func (r *MentorshipRequestRepository) Approve(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	now := time.Now().UTC()
	access := models.CalendarAccess{IsUnlocked: true, UnlockedAt: &now}

	query := fmt.Sprintf(`UPDATE mentorship_requests
SET status = $2, approved_at = $3, updated_at = $3, calendar_access = $4
WHERE id = $1 AND status = $5
RETURNING %s`, requestColumns)

	var request models.MentorshipRequest
	err := r.db.QueryRowxContext(ctx, query, id, models.StatusApproved, now, access, models.StatusPending).StructScan(&request)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id, models.StatusPending)
		}
		return nil, fmt.Errorf("approve mentorship request: %w", err)
	}
	return &request, nil
}

// Reject transitions a pending request to rejected with an optional reason.
func (r *MentorshipRequestRepository) Reject(ctx context.Context, id string, reason *string) (*models.MentorshipRequest, error) {
	now := time.Now().UTC()
	query := fmt.Sprintf(`UPDATE mentorship_requests
SET status = $2, rejected_at = $3, updated_at = $3, rejection_reason = $4
WHERE id = $1 AND status = $5
RETURNING %s`, requestColumns)

	var request models.MentorshipRequest
	err := r.db.QueryRowxContext(ctx, query, id, models.StatusRejected, now, reason, models.StatusPending).StructScan(&request)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id, models.StatusPending)
		}
		return nil, fmt.Errorf("reject mentorship request: %w", err)
	}
	return &request, nil
}

// MarkDone transitions an approved request to done and locks calendar access.
// The unlock instant is kept so history shows the full access window.
func (r *MentorshipRequestRepository) MarkDone(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	now := time.Now().UTC()
	lock := models.CalendarAccess{IsUnlocked: false, LockedAt: &now}

	query := fmt.Sprintf(`UPDATE mentorship_requests
SET status = $2, completed_at = $3, updated_at = $3,
calendar_access = COALESCE(calendar_access, '{}'::jsonb) || $4::jsonb
WHERE id = $1 AND status = $5
RETURNING %s`, requestColumns)

	var request models.MentorshipRequest
	err := r.db.QueryRowxContext(ctx, query, id, models.StatusDone, now, lock, models.StatusApproved).StructScan(&request)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id, models.StatusApproved)
		}
		return nil, fmt.Errorf("complete mentorship request: %w", err)
	}
	return &request, nil
}

// SaveBookingURL stores the booking link regardless of status.
func (r *MentorshipRequestRepository) SaveBookingURL(ctx context.Context, id, bookingURL string) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		"UPDATE mentorship_requests SET booking_url = $2, updated_at = $3 WHERE id = $1",
		id, bookingURL, now)
	if err != nil {
		return fmt.Errorf("save booking url: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save booking url: %w", err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "mentorship request not found")
	}
	return nil
}

// HasOutstanding reports whether the mentee already has a pending or approved
// request to the mentor.
func (r *MentorshipRequestRepository) HasOutstanding(ctx context.Context, menteeID, mentorID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM mentorship_requests
WHERE mentee_id = $1 AND mentor_id = $2 AND status IN ($3, $4))`
	if err := r.db.GetContext(ctx, &exists, query, menteeID, mentorID, models.StatusPending, models.StatusApproved); err != nil {
		return false, fmt.Errorf("check outstanding request: %w", err)
	}
	return exists, nil
}

// HasCalendarAccess reports whether any request between the pair currently
// grants booking access: approved with calendar access unlocked. A request
// that has moved on to done stays locked and does not count.
func (r *MentorshipRequestRepository) HasCalendarAccess(ctx context.Context, menteeID, mentorID string) (bool, error) {
	var unlocked bool
	query := `SELECT EXISTS (SELECT 1 FROM mentorship_requests
WHERE mentee_id = $1 AND mentor_id = $2 AND status = $3
AND COALESCE((calendar_access->>'isUnlocked')::boolean, false))`
	if err := r.db.GetContext(ctx, &unlocked, query, menteeID, mentorID, models.StatusApproved); err != nil {
		return false, fmt.Errorf("check calendar access: %w", err)
	}
	return unlocked, nil
}

// WatchForMentor streams snapshots of a mentor's inbound requests.
func (r *MentorshipRequestRepository) WatchForMentor(ctx context.Context, mentorID string) <-chan stream.Snapshot[[]models.MentorshipRequest] {
	return stream.Watch(ctx, r.streams.Hub, r.streams.Options(stream.TopicMentorshipRequests), func(ctx context.Context) ([]models.MentorshipRequest, error) {
		requests, err := r.ListForMentor(ctx, mentorID)
		if err != nil {
			return nil, asTransient(err, "could not load mentor requests")
		}
		return requests, nil
	})
}

// WatchForMentee streams snapshots of a mentee's outbound requests.
func (r *MentorshipRequestRepository) WatchForMentee(ctx context.Context, menteeID string) <-chan stream.Snapshot[[]models.MentorshipRequest] {
	return stream.Watch(ctx, r.streams.Hub, r.streams.Options(stream.TopicMentorshipRequests), func(ctx context.Context) ([]models.MentorshipRequest, error) {
		requests, err := r.ListForMentee(ctx, menteeID)
		if err != nil {
			return nil, asTransient(err, "could not load mentee requests")
		}
		return requests, nil
	})
}

// WatchByID streams snapshots of a single request. A missing request emits a
// nil snapshot rather than an error, mirroring a deleted document.
func (r *MentorshipRequestRepository) WatchByID(ctx context.Context, id string) <-chan stream.Snapshot[*models.MentorshipRequest] {
	return stream.Watch(ctx, r.streams.Hub, r.streams.Options(stream.TopicMentorshipRequests), func(ctx context.Context) (*models.MentorshipRequest, error) {
		request, err := r.FindByID(ctx, id)
		if err != nil {
			if appErrors.IsKind(err, appErrors.ErrNotFound) {
				return nil, nil
			}
			return nil, asTransient(err, "could not load mentorship request")
		}
		return request, nil
	})
}

// WatchCalendarAccess streams the effective booking permission between a
// mentee and a mentor.
func (r *MentorshipRequestRepository) WatchCalendarAccess(ctx context.Context, menteeID, mentorID string) <-chan stream.Snapshot[bool] {
	return stream.Watch(ctx, r.streams.Hub, r.streams.Options(stream.TopicMentorshipRequests), func(ctx context.Context) (bool, error) {
		unlocked, err := r.HasCalendarAccess(ctx, menteeID, mentorID)
		if err != nil {
			return false, asTransient(err, "could not check calendar access")
		}
		return unlocked, nil
	})
}

// transitionFailure inspects why a guarded transition matched no rows.
func (r *MentorshipRequestRepository) transitionFailure(ctx context.Context, id string, want models.RequestStatus) error {
	request, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return appErrors.Clone(appErrors.ErrConflict,
		fmt.Sprintf("mentorship request is %s, expected %s", request.Status, want))
}
