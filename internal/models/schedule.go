package models

import (
	"sort"
	"time"
)

// Meeting is a single scheduled session between a mentor and a mentee.
type Meeting struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	JoinURL   string    `json:"join_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsUpcoming reports whether the meeting has not started yet.
func (m Meeting) IsUpcoming(now time.Time) bool {
	return m.StartsAt.After(now)
}

// Schedule is the booking view derived from an approved mentorship request.
// It is computed per read and never persisted.
type Schedule struct {
	OwnerID    string          `json:"owner_id"`
	RequestID  string          `json:"request_id"`
	IsUnlocked bool            `json:"is_unlocked"`
	UnlockedAt *time.Time      `json:"unlocked_at,omitempty"`
	LockedAt   *time.Time      `json:"locked_at,omitempty"`
	BookingURL *string         `json:"booking_url,omitempty"`
	Meetings   []Meeting       `json:"meetings"`
	Access     *CalendarAccess `json:"-"`
}

// UpcomingMeetings returns future meetings sorted by start time.
func (s *Schedule) UpcomingMeetings(now time.Time) []Meeting {
	upcoming := make([]Meeting, 0, len(s.Meetings))
	for _, meeting := range s.Meetings {
		if meeting.IsUpcoming(now) {
			upcoming = append(upcoming, meeting)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].StartsAt.Before(upcoming[j].StartsAt)
	})
	return upcoming
}
