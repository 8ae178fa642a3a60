package models

import "time"

// NotificationKind labels what triggered a notification.
type NotificationKind string

const (
	NotificationRequestReceived NotificationKind = "request_received"
	NotificationRequestApproved NotificationKind = "request_approved"
	NotificationRequestRejected NotificationKind = "request_rejected"
	NotificationRequestDone     NotificationKind = "request_done"
)

// Notification is a per-user event stored in a capped redis list.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	RequestID string           `json:"request_id"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}
