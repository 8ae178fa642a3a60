package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/pagination"
	"github.com/mentorlink/mentorlink-api/pkg/validation"
)

type mentorshipRequestStore interface {
	Create(ctx context.Context, request *models.MentorshipRequest) error
	FindByID(ctx context.Context, id string) (*models.MentorshipRequest, error)
	ListForMentee(ctx context.Context, menteeID string) ([]models.MentorshipRequest, error)
	ListForMentorPage(ctx context.Context, mentorID string, opts pagination.Options) ([]models.MentorshipRequest, int, error)
	Approve(ctx context.Context, id string) (*models.MentorshipRequest, error)
	Reject(ctx context.Context, id string, reason *string) (*models.MentorshipRequest, error)
	MarkDone(ctx context.Context, id string) (*models.MentorshipRequest, error)
	SaveBookingURL(ctx context.Context, id, bookingURL string) error
	HasOutstanding(ctx context.Context, menteeID, mentorID string) (bool, error)
	HasCalendarAccess(ctx context.Context, menteeID, mentorID string) (bool, error)
	WatchForMentor(ctx context.Context, mentorID string) <-chan stream.Snapshot[[]models.MentorshipRequest]
	WatchForMentee(ctx context.Context, menteeID string) <-chan stream.Snapshot[[]models.MentorshipRequest]
	WatchByID(ctx context.Context, id string) <-chan stream.Snapshot[*models.MentorshipRequest]
	WatchCalendarAccess(ctx context.Context, menteeID, mentorID string) <-chan stream.Snapshot[bool]
}

type profileReader interface {
	FindByID(ctx context.Context, uid string) (*models.User, error)
}

type bookingLinkBuilder interface {
	PublicBookingURL(username string) (string, error)
}

// TransitionNotifier receives lifecycle transitions for fan-out. Delivery is
// best effort and must never block the transition.
type TransitionNotifier interface {
	Notify(kind models.NotificationKind, request *models.MentorshipRequest)
}

// NopNotifier discards all transitions. Used when notifications are disabled.
type NopNotifier struct{}

func (NopNotifier) Notify(models.NotificationKind, *models.MentorshipRequest) {}

// identityProvider resolves the authenticated user for the current call.
type identityProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// MentorshipRequestService orchestrates the request lifecycle: create,
// approve, reject, complete, booking links and the calendar access that
// follows the status around.
type MentorshipRequestService struct {
	store     mentorshipRequestStore
	profiles  profileReader
	links     bookingLinkBuilder
	notifier  TransitionNotifier
	identity  identityProvider
	validator *validator.Validate
	logger    *zap.Logger

	requestPageSize int
	maxPageSize     int
}

// NewMentorshipRequestService constructs the service.
func NewMentorshipRequestService(
	store mentorshipRequestStore,
	profiles profileReader,
	links bookingLinkBuilder,
	notifier TransitionNotifier,
	identity identityProvider,
	validate *validator.Validate,
	logger *zap.Logger,
	requestPageSize, maxPageSize int,
) *MentorshipRequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if requestPageSize <= 0 {
		requestPageSize = 10
	}
	if maxPageSize <= 0 {
		maxPageSize = 50
	}
	return &MentorshipRequestService{
		store:           store,
		profiles:        profiles,
		links:           links,
		notifier:        notifier,
		identity:        identity,
		validator:       validate,
		logger:          logger,
		requestPageSize: requestPageSize,
		maxPageSize:     maxPageSize,
	}
}

// RequestMentorship creates a pending request from the authenticated mentee
// to the given mentor. A mentee may hold at most one pending or approved
// request per mentor; the guard reads before writing, so two simultaneous
// submissions can still both pass it.
func (s *MentorshipRequestService) RequestMentorship(ctx context.Context, form models.MentorshipRequestForm) (*models.MentorshipRequest, error) {
	menteeID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.AssertUID(menteeID, "mentee id"); err != nil {
		return nil, err
	}

	form.Normalize()
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentorship request")
	}
	if form.MentorID == menteeID {
		return nil, appErrors.Validation("cannot request mentorship from yourself")
	}

	outstanding, err := s.store.HasOutstanding(ctx, menteeID, form.MentorID)
	if err != nil {
		return nil, s.asTransient(err, "could not check existing requests")
	}
	if outstanding {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you already have an active mentorship request with this mentor")
	}

	mentor, err := s.profiles.FindByID(ctx, form.MentorID)
	if err != nil {
		if appErrors.IsKind(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, s.asTransient(err, "could not load mentor profile")
	}

	menteeName := ""
	if mentee, err := s.profiles.FindByID(ctx, menteeID); err == nil {
		menteeName = mentee.DisplayName
	}

	request := &models.MentorshipRequest{
		MenteeID:                  menteeID,
		MentorID:                  form.MentorID,
		MenteeName:                menteeName,
		MentorName:                mentor.DisplayName,
		Message:                   form.Message,
		Goals:                     pq.StringArray(form.Goals),
		ExperienceLevel:           form.ExperienceLevel,
		PreferredMeetingFrequency: form.PreferredMeetingFrequency,
	}
	if err := s.store.Create(ctx, request); err != nil {
		return nil, s.asTransient(err, "could not submit mentorship request")
	}

	s.notify(models.NotificationRequestReceived, request)
	return request, nil
}

// WatchMentorRequests streams the authenticated mentor's inbound requests.
func (s *MentorshipRequestService) WatchMentorRequests(ctx context.Context) (<-chan stream.Snapshot[[]models.MentorshipRequest], error) {
	mentorID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.AssertUID(mentorID, "mentor id"); err != nil {
		return nil, err
	}
	return s.store.WatchForMentor(ctx, mentorID), nil
}

// WatchMenteeRequests streams the authenticated mentee's outbound requests.
func (s *MentorshipRequestService) WatchMenteeRequests(ctx context.Context) (<-chan stream.Snapshot[[]models.MentorshipRequest], error) {
	menteeID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.AssertUID(menteeID, "mentee id"); err != nil {
		return nil, err
	}
	return s.store.WatchForMentee(ctx, menteeID), nil
}

// WatchMenteeRequestFeed streams the mentee's requests joined with mentor
// profiles and derived schedules. Each emission re-reads the profiles of the
// distinct mentors in the snapshot; a profile that cannot be loaded degrades
// that item to a nil mentor instead of dropping it.
func (s *MentorshipRequestService) WatchMenteeRequestFeed(ctx context.Context) (<-chan stream.Snapshot[[]models.FeedItem], error) {
	requests, err := s.WatchMenteeRequests(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan stream.Snapshot[[]models.FeedItem], 1)
	go func() {
		defer close(out)
		for snapshot := range requests {
			if snapshot.Err != nil {
				out <- stream.Snapshot[[]models.FeedItem]{Err: snapshot.Err}
				return
			}
			select {
			case <-ctx.Done():
				return
			case out <- stream.Snapshot[[]models.FeedItem]{Data: s.buildFeed(ctx, snapshot.Data)}:
			}
		}
	}()
	return out, nil
}

// WatchRequest streams a single request. A blank identifier yields a stream
// that emits nil once and completes, matching a document that does not exist.
func (s *MentorshipRequestService) WatchRequest(ctx context.Context, id string) <-chan stream.Snapshot[*models.MentorshipRequest] {
	if strings.TrimSpace(id) == "" {
		return stream.Null[*models.MentorshipRequest]()
	}
	return s.store.WatchByID(ctx, id)
}

// GetRequest returns a request once.
func (s *MentorshipRequestService) GetRequest(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	if err := validation.AssertNonEmptyString(id, "request id"); err != nil {
		return nil, err
	}
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, s.asTransient(err, "could not load mentorship request")
	}
	return request, nil
}

// Approve moves a pending request to approved and unlocks the mentee's
// calendar access. Only the addressed mentor may approve.
func (s *MentorshipRequestService) Approve(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	if err := s.authorizeMentor(ctx, id); err != nil {
		return nil, err
	}
	request, err := s.store.Approve(ctx, id)
	if err != nil {
		return nil, s.asTransient(err, "could not approve mentorship request")
	}
	s.notify(models.NotificationRequestApproved, request)
	return request, nil
}

// Reject moves a pending request to rejected with an optional trimmed reason.
func (s *MentorshipRequestService) Reject(ctx context.Context, id string, form models.RejectRequestForm) (*models.MentorshipRequest, error) {
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rejection")
	}
	if err := s.authorizeMentor(ctx, id); err != nil {
		return nil, err
	}

	var reason *string
	if trimmed := strings.TrimSpace(form.Reason); trimmed != "" {
		reason = &trimmed
	}
	request, err := s.store.Reject(ctx, id, reason)
	if err != nil {
		return nil, s.asTransient(err, "could not reject mentorship request")
	}
	s.notify(models.NotificationRequestRejected, request)
	return request, nil
}

// MarkAsCompleted moves an approved request to done and locks calendar
// access, keeping the original unlock instant for history.
func (s *MentorshipRequestService) MarkAsCompleted(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	if err := s.authorizeMentor(ctx, id); err != nil {
		return nil, err
	}
	request, err := s.store.MarkDone(ctx, id)
	if err != nil {
		return nil, s.asTransient(err, "could not complete mentorship request")
	}
	s.notify(models.NotificationRequestDone, request)
	return request, nil
}

// RecordBookingURL stores the booking link on the request. The mentee records
// it after booking a slot; the mentor may also set it. The status is
// deliberately not checked.
func (s *MentorshipRequestService) RecordBookingURL(ctx context.Context, id string, form models.BookingURLForm) error {
	if err := s.validator.Struct(form); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking url")
	}
	if err := s.authorizeParticipant(ctx, id); err != nil {
		return err
	}
	if err := s.store.SaveBookingURL(ctx, id, form.BookingURL); err != nil {
		return s.asTransient(err, "could not save booking url")
	}
	return nil
}

// HasOutstandingRequest reports whether the authenticated mentee already has
// a pending or approved request to the mentor.
func (s *MentorshipRequestService) HasOutstandingRequest(ctx context.Context, mentorID string) (bool, error) {
	menteeID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return false, err
	}
	if err := validation.AssertUID(menteeID, "mentee id"); err != nil {
		return false, err
	}
	if err := validation.AssertUID(mentorID, "mentor id"); err != nil {
		return false, err
	}
	outstanding, err := s.store.HasOutstanding(ctx, menteeID, mentorID)
	if err != nil {
		return false, s.asTransient(err, "could not check existing requests")
	}
	return outstanding, nil
}

// HasCalendarAccess reports once whether the authenticated mentee may
// currently book time with the mentor.
func (s *MentorshipRequestService) HasCalendarAccess(ctx context.Context, mentorID string) (bool, error) {
	menteeID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return false, err
	}
	if err := validation.AssertUID(menteeID, "mentee id"); err != nil {
		return false, err
	}
	if err := validation.AssertUID(mentorID, "mentor id"); err != nil {
		return false, err
	}
	unlocked, err := s.store.HasCalendarAccess(ctx, menteeID, mentorID)
	if err != nil {
		return false, s.asTransient(err, "could not check calendar access")
	}
	return unlocked, nil
}

// ObserveCalendarAccess streams the mentee's effective booking permission
// with the mentor.
func (s *MentorshipRequestService) ObserveCalendarAccess(ctx context.Context, mentorID string) (<-chan stream.Snapshot[bool], error) {
	menteeID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.AssertUID(menteeID, "mentee id"); err != nil {
		return nil, err
	}
	if err := validation.AssertUID(mentorID, "mentor id"); err != nil {
		return nil, err
	}
	return s.store.WatchCalendarAccess(ctx, menteeID, mentorID), nil
}

// PaginateMentorRequests returns one page of the authenticated mentor's
// requests. Omitted options default to page 1, the configured page size,
// newest first.
func (s *MentorshipRequestService) PaginateMentorRequests(ctx context.Context, opts pagination.Options) ([]models.MentorshipRequest, *pagination.Meta, error) {
	mentorID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := validation.AssertUID(mentorID, "mentor id"); err != nil {
		return nil, nil, err
	}

	defaults := pagination.Options{Page: 1, Limit: s.requestPageSize, OrderBy: "createdAt", OrderDirection: pagination.OrderDesc}
	normalized, err := pagination.Normalize(opts, defaults)
	if err != nil {
		return nil, nil, err
	}
	if normalized.Limit > s.maxPageSize {
		normalized.Limit = s.maxPageSize
	}

	requests, total, err := s.store.ListForMentorPage(ctx, mentorID, normalized)
	if err != nil {
		return nil, nil, s.asTransient(err, "could not list mentorship requests")
	}
	meta := pagination.NewMeta(normalized.Page, normalized.Limit, total)
	return requests, &meta, nil
}

// ListMenteeRequests returns the mentee's requests once, newest first.
func (s *MentorshipRequestService) ListMenteeRequests(ctx context.Context) ([]models.MentorshipRequest, error) {
	menteeID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.AssertUID(menteeID, "mentee id"); err != nil {
		return nil, err
	}
	requests, err := s.store.ListForMentee(ctx, menteeID)
	if err != nil {
		return nil, s.asTransient(err, "could not list mentorship requests")
	}
	return requests, nil
}

func (s *MentorshipRequestService) buildFeed(ctx context.Context, requests []models.MentorshipRequest) []models.FeedItem {
	items := make([]models.FeedItem, 0, len(requests))
	if len(requests) == 0 {
		return items
	}

	mentorIDs := make([]string, 0, len(requests))
	seen := make(map[string]struct{}, len(requests))
	for _, request := range requests {
		if _, ok := seen[request.MentorID]; ok {
			continue
		}
		seen[request.MentorID] = struct{}{}
		mentorIDs = append(mentorIDs, request.MentorID)
	}

	mentors := make(map[string]*models.User, len(mentorIDs))
	for _, mentorID := range mentorIDs {
		mentor, err := s.profiles.FindByID(ctx, mentorID)
		if err != nil {
			s.logger.Sugar().Warnw("feed mentor profile unavailable", "mentor_id", mentorID, "error", err)
			continue
		}
		mentors[mentorID] = mentor
	}

	for _, request := range requests {
		mentor := mentors[request.MentorID]
		items = append(items, models.FeedItem{
			Request:  request,
			Mentor:   mentor,
			Schedule: s.composeSchedule(&request, mentor),
		})
	}
	return items
}

// composeSchedule derives the booking view for a request. The booking link
// prefers the mentor's linked calendar over the URL stored on the request,
// and is only present while access is unlocked.
func (s *MentorshipRequestService) composeSchedule(request *models.MentorshipRequest, mentor *models.User) *models.Schedule {
	ownerID := request.MentorID
	if mentor != nil {
		ownerID = mentor.UID
	}
	schedule := &models.Schedule{
		OwnerID:   ownerID,
		RequestID: request.ID,
		Meetings:  []models.Meeting{},
	}
	if request.CalendarAccess != nil {
		schedule.IsUnlocked = request.CalendarAccess.IsUnlocked
		schedule.UnlockedAt = request.CalendarAccess.UnlockedAt
		schedule.LockedAt = request.CalendarAccess.LockedAt
		schedule.Access = request.CalendarAccess
	}
	if !schedule.IsUnlocked {
		return schedule
	}

	if username := mentor.CalUsername(); username != "" && s.links != nil {
		if url, err := s.links.PublicBookingURL(username); err == nil {
			schedule.BookingURL = &url
			return schedule
		}
	}
	if request.BookingURL != nil && *request.BookingURL != "" {
		schedule.BookingURL = request.BookingURL
	}
	return schedule
}

// authorizeMentor loads the request and checks the caller is its mentor.
func (s *MentorshipRequestService) authorizeMentor(ctx context.Context, id string) error {
	if err := validation.AssertNonEmptyString(id, "request id"); err != nil {
		return err
	}
	mentorID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.asTransient(err, "could not load mentorship request")
	}
	if request.MentorID != mentorID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the addressed mentor may act on this request")
	}
	return nil
}

// authorizeParticipant loads the request and checks the caller is its mentee
// or its mentor.
func (s *MentorshipRequestService) authorizeParticipant(ctx context.Context, id string) error {
	if err := validation.AssertNonEmptyString(id, "request id"); err != nil {
		return err
	}
	callerID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	request, err := s.store.FindByID(ctx, id)
	if err != nil {
		return s.asTransient(err, "could not load mentorship request")
	}
	if request.MenteeID != callerID && request.MentorID != callerID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the mentee or mentor on this request may act on it")
	}
	return nil
}

func (s *MentorshipRequestService) notify(kind models.NotificationKind, request *models.MentorshipRequest) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(kind, request)
}

// asTransient wraps infrastructure failures as retryable while letting typed
// domain errors pass through untouched.
func (s *MentorshipRequestService) asTransient(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Transient(err, message)
}
