package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/validation"
)

type userStore interface {
	FindByID(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, form models.ProfileUpdateForm) (*models.User, error)
	LinkMentorCalendar(ctx context.Context, uid, calUsername string) (*models.User, error)
	Watch(ctx context.Context, uid string) <-chan stream.Snapshot[*models.User]
}

// UserService manages user profiles and their live views.
type UserService struct {
	store     userStore
	identity  identityProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(store userStore, identity identityProvider, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{store: store, identity: identity, validator: validate, logger: logger}
}

// ObserveProfile returns a user's profile once.
func (s *UserService) ObserveProfile(ctx context.Context, uid string) (*models.User, error) {
	if err := validation.AssertUID(uid, "user id"); err != nil {
		return nil, err
	}
	user, err := s.store.FindByID(ctx, uid)
	if err != nil {
		return nil, s.asTransient(err, "could not load user profile")
	}
	return user, nil
}

// CurrentProfile returns the authenticated user's profile.
func (s *UserService) CurrentProfile(ctx context.Context) (*models.User, error) {
	uid, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.ObserveProfile(ctx, uid)
}

// WatchProfile streams a user's profile. A missing user emits nil snapshots.
func (s *UserService) WatchProfile(ctx context.Context, uid string) (<-chan stream.Snapshot[*models.User], error) {
	if err := validation.AssertUID(uid, "user id"); err != nil {
		return nil, err
	}
	return s.store.Watch(ctx, uid), nil
}

// ApplyProfileChanges updates the authenticated user's editable fields.
func (s *UserService) ApplyProfileChanges(ctx context.Context, form models.ProfileUpdateForm) (*models.User, error) {
	uid, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile")
	}
	user, err := s.store.UpdateProfile(ctx, uid, form)
	if err != nil {
		return nil, s.asTransient(err, "could not update profile")
	}
	return user, nil
}

// LinkMentorCalendar stores the authenticated mentor's cal.com username so
// approved mentees get a booking link without per-request URLs.
func (s *UserService) LinkMentorCalendar(ctx context.Context, form models.LinkCalendarForm) (*models.User, error) {
	uid, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(form); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar username")
	}
	user, err := s.store.LinkMentorCalendar(ctx, uid, form.CalUsername)
	if err != nil {
		return nil, s.asTransient(err, "could not link calendar")
	}
	return user, nil
}

func (s *UserService) asTransient(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Transient(err, message)
}
