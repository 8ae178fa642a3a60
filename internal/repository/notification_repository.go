package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// NotificationRepository stores per-user notifications in capped redis lists,
// newest first.
type NotificationRepository struct {
	client    *redis.Client
	retention int
}

// NewNotificationRepository creates the repository. Retention caps the list
// length per user.
func NewNotificationRepository(client *redis.Client, retention int) *NotificationRepository {
	if retention <= 0 {
		retention = 100
	}
	return &NotificationRepository{client: client, retention: retention}
}

// Push prepends a notification and trims the list to the retention cap.
func (r *NotificationRepository) Push(ctx context.Context, notification models.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	key := r.key(notification.UserID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(r.retention-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	return nil
}

// List returns up to limit notifications for the user, newest first.
func (r *NotificationRepository) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > r.retention {
		limit = r.retention
	}

	raw, err := r.client.LRange(ctx, r.key(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]models.Notification, 0, len(raw))
	for _, item := range raw {
		var notification models.Notification
		if err := json.Unmarshal([]byte(item), &notification); err != nil {
			// A corrupt entry is skipped rather than failing the read.
			continue
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

func (r *NotificationRepository) key(userID string) string {
	return "notifications:" + userID
}
