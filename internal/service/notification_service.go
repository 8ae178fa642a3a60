package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/pkg/jobs"
	"github.com/mentorlink/mentorlink-api/pkg/validation"
)

type notificationStore interface {
	Push(ctx context.Context, notification models.Notification) error
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)
}

// NotificationService turns request transitions into per-user notifications.
// Dispatch is asynchronous through a worker queue so a slow store never
// delays the transition that triggered it.
type NotificationService struct {
	store  notificationStore
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs the service and its dispatch queue. Call
// Start before use and Stop on shutdown.
func NewNotificationService(store notificationStore, workers, buffer int, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{store: store, logger: logger}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: buffer,
		Logger:     logger,
	})
	return s
}

// Start launches the dispatch workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Notify enqueues a notification for the party affected by the transition.
// Failures are logged, never surfaced to the transition.
func (s *NotificationService) Notify(kind models.NotificationKind, request *models.MentorshipRequest) {
	if request == nil {
		return
	}
	notification := buildNotification(kind, request)
	if notification == nil {
		return
	}

	job := jobs.Job{
		ID:      notification.ID,
		Kind:    string(kind),
		Payload: *notification,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Sugar().Warnw("notification dropped", "kind", kind, "request_id", request.ID, "error", err)
	}
}

// List returns the authenticated user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if err := validation.AssertUID(userID, "user id"); err != nil {
		return nil, err
	}
	return s.store.List(ctx, userID, limit)
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	notification, ok := job.Payload.(models.Notification)
	if !ok {
		s.logger.Sugar().Errorw("notification payload has wrong type", "job_id", job.ID)
		return nil
	}
	return s.store.Push(ctx, notification)
}

func buildNotification(kind models.NotificationKind, request *models.MentorshipRequest) *models.Notification {
	notification := models.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		RequestID: request.ID,
		CreatedAt: request.UpdatedAt,
	}

	switch kind {
	case models.NotificationRequestReceived:
		notification.UserID = request.MentorID
		notification.Message = fmt.Sprintf("%s sent you a mentorship request", fallbackName(request.MenteeName, "A mentee"))
	case models.NotificationRequestApproved:
		notification.UserID = request.MenteeID
		notification.Message = fmt.Sprintf("%s approved your mentorship request", fallbackName(request.MentorName, "Your mentor"))
	case models.NotificationRequestRejected:
		notification.UserID = request.MenteeID
		notification.Message = fmt.Sprintf("%s declined your mentorship request", fallbackName(request.MentorName, "Your mentor"))
	case models.NotificationRequestDone:
		notification.UserID = request.MenteeID
		notification.Message = fmt.Sprintf("Your mentorship with %s is complete", fallbackName(request.MentorName, "your mentor"))
	default:
		return nil
	}
	return &notification
}

func fallbackName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
