package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// RequestStatus represents the lifecycle state of a mentorship request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
	StatusDone     RequestStatus = "done"
)

// ExperienceLevel is the mentee's self-reported seniority.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// MeetingFrequency is the mentee's preferred cadence.
type MeetingFrequency string

const (
	FrequencyWeekly   MeetingFrequency = "weekly"
	FrequencyBiweekly MeetingFrequency = "bi-weekly"
	FrequencyMonthly  MeetingFrequency = "monthly"
	FrequencyAsNeeded MeetingFrequency = "as-needed"
)

// CalendarAccess tracks whether a mentee may book time on the mentor's
// calendar. Stored as a JSONB column; keys stay camelCase for API clients.
type CalendarAccess struct {
	IsUnlocked bool       `json:"isUnlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
	LockedAt   *time.Time `json:"lockedAt,omitempty"`
}

// Value implements driver.Valuer for JSONB storage.
func (a CalendarAccess) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (a *CalendarAccess) Scan(src interface{}) error {
	if src == nil {
		*a = CalendarAccess{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported calendar access type %T", src)
	}
}

// MentorshipRequest represents a persisted mentorship request row.
type MentorshipRequest struct {
	ID                        string          `db:"id" json:"id"`
	MenteeID                  string          `db:"mentee_id" json:"mentee_id"`
	MentorID                  string          `db:"mentor_id" json:"mentor_id"`
	MenteeName                string          `db:"mentee_name" json:"mentee_name"`
	MentorName                string          `db:"mentor_name" json:"mentor_name"`
	Status                    RequestStatus   `db:"status" json:"status"`
	Message                   string          `db:"message" json:"message"`
	Goals                     pq.StringArray  `db:"goals" json:"goals"`
	ExperienceLevel           string          `db:"experience_level" json:"experience_level"`
	PreferredMeetingFrequency string          `db:"preferred_meeting_frequency" json:"preferred_meeting_frequency"`
	RejectionReason           *string         `db:"rejection_reason" json:"rejection_reason,omitempty"`
	CalendarAccess            *CalendarAccess `db:"calendar_access" json:"calendar_access,omitempty"`
	BookingURL                *string         `db:"booking_url" json:"booking_url,omitempty"`
	CreatedAt                 time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time       `db:"updated_at" json:"updated_at"`
	ApprovedAt                *time.Time      `db:"approved_at" json:"approved_at,omitempty"`
	RejectedAt                *time.Time      `db:"rejected_at" json:"rejected_at,omitempty"`
	CompletedAt               *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}

// IsPending reports whether the request still awaits a mentor decision.
func (r *MentorshipRequest) IsPending() bool { return r.Status == StatusPending }

// IsApproved reports whether the mentorship is active.
func (r *MentorshipRequest) IsApproved() bool { return r.Status == StatusApproved }

// IsOutstanding reports whether the request blocks a new one to the same
// mentor.
func (r *MentorshipRequest) IsOutstanding() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// HasCalendarAccess reports whether the mentee may currently book time.
func (r *MentorshipRequest) HasCalendarAccess() bool {
	return r.Status == StatusApproved && r.CalendarAccess != nil && r.CalendarAccess.IsUnlocked
}

// WithApproved returns a copy transitioned to approved with calendar access
// unlocked at the given instant.
func (r MentorshipRequest) WithApproved(now time.Time) MentorshipRequest {
	r.Status = StatusApproved
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.CalendarAccess = &CalendarAccess{IsUnlocked: true, UnlockedAt: &now}
	return r
}

// WithRejected returns a copy transitioned to rejected. An empty reason is
// stored as absent.
func (r MentorshipRequest) WithRejected(now time.Time, reason string) MentorshipRequest {
	r.Status = StatusRejected
	r.RejectedAt = &now
	r.UpdatedAt = now
	reason = strings.TrimSpace(reason)
	if reason != "" {
		r.RejectionReason = &reason
	} else {
		r.RejectionReason = nil
	}
	return r
}

// WithCompleted returns a copy transitioned to done with calendar access
// locked. The original unlock instant is preserved.
func (r MentorshipRequest) WithCompleted(now time.Time) MentorshipRequest {
	r.Status = StatusDone
	r.CompletedAt = &now
	r.UpdatedAt = now
	access := CalendarAccess{IsUnlocked: false, LockedAt: &now}
	if r.CalendarAccess != nil {
		access.UnlockedAt = r.CalendarAccess.UnlockedAt
	}
	r.CalendarAccess = &access
	return r
}

// MentorshipRequestForm is the payload for creating a mentorship request.
type MentorshipRequestForm struct {
	MentorID                  string   `json:"mentor_id" validate:"required,min=5"`
	Message                   string   `json:"message" validate:"required,min=10,max=1000"`
	Goals                     []string `json:"goals" validate:"max=5,dive,max=200"`
	ExperienceLevel           string   `json:"experience_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	PreferredMeetingFrequency string   `json:"preferred_meeting_frequency" validate:"omitempty,oneof=weekly bi-weekly monthly as-needed"`
}

// Normalize trims the message and drops blank goal entries. Applying it twice
// yields the same result.
func (f *MentorshipRequestForm) Normalize() {
	f.MentorID = strings.TrimSpace(f.MentorID)
	f.Message = strings.TrimSpace(f.Message)
	f.ExperienceLevel = strings.TrimSpace(f.ExperienceLevel)
	f.PreferredMeetingFrequency = strings.TrimSpace(f.PreferredMeetingFrequency)

	goals := make([]string, 0, len(f.Goals))
	for _, goal := range f.Goals {
		goal = strings.TrimSpace(goal)
		if goal != "" {
			goals = append(goals, goal)
		}
	}
	f.Goals = goals
}

// RejectRequestForm carries the optional rejection reason.
type RejectRequestForm struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// BookingURLForm carries a mentor's external booking link.
type BookingURLForm struct {
	BookingURL string `json:"booking_url" validate:"required,url"`
}
