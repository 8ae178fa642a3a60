package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormNormalizeIsIdempotent(t *testing.T) {
	form := MentorshipRequestForm{
		MentorID:        "  mentor-100  ",
		Message:         "  Please help me grow as a backend engineer  ",
		Goals:           []string{" system design ", "", "  ", "Go concurrency"},
		ExperienceLevel: " beginner ",
	}

	form.Normalize()
	first := form
	form.Normalize()

	assert.Equal(t, first, form)
	assert.Equal(t, "mentor-100", form.MentorID)
	assert.Equal(t, "Please help me grow as a backend engineer", form.Message)
	assert.Equal(t, []string{"system design", "Go concurrency"}, form.Goals)
	assert.Equal(t, "beginner", form.ExperienceLevel)
}

func TestWithApprovedUnlocksCalendar(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	request := MentorshipRequest{ID: "req-1", Status: StatusPending}

	approved := request.WithApproved(now)

	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.CalendarAccess)
	assert.True(t, approved.CalendarAccess.IsUnlocked)
	require.NotNil(t, approved.CalendarAccess.UnlockedAt)
	assert.Equal(t, now, *approved.CalendarAccess.UnlockedAt)
	assert.Nil(t, approved.CalendarAccess.LockedAt)

	// The receiver is copied; the original stays pending.
	assert.Equal(t, StatusPending, request.Status)
}

func TestWithCompletedLocksButKeepsUnlockInstant(t *testing.T) {
	unlockedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	completedAt := unlockedAt.Add(30 * 24 * time.Hour)

	request := MentorshipRequest{ID: "req-1", Status: StatusPending}.WithApproved(unlockedAt)
	done := request.WithCompleted(completedAt)

	assert.Equal(t, StatusDone, done.Status)
	require.NotNil(t, done.CalendarAccess)
	assert.False(t, done.CalendarAccess.IsUnlocked)
	require.NotNil(t, done.CalendarAccess.UnlockedAt)
	assert.Equal(t, unlockedAt, *done.CalendarAccess.UnlockedAt)
	require.NotNil(t, done.CalendarAccess.LockedAt)
	assert.Equal(t, completedAt, *done.CalendarAccess.LockedAt)
}

func TestWithRejectedStoresTrimmedReason(t *testing.T) {
	now := time.Now().UTC()

	rejected := MentorshipRequest{Status: StatusPending}.WithRejected(now, "  not taking mentees right now  ")
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "not taking mentees right now", *rejected.RejectionReason)

	silent := MentorshipRequest{Status: StatusPending}.WithRejected(now, "   ")
	assert.Nil(t, silent.RejectionReason)
	assert.Equal(t, StatusRejected, silent.Status)
}

func TestHasCalendarAccess(t *testing.T) {
	now := time.Now().UTC()

	pending := MentorshipRequest{Status: StatusPending}
	assert.False(t, pending.HasCalendarAccess())

	approved := pending.WithApproved(now)
	assert.True(t, approved.HasCalendarAccess())

	done := approved.WithCompleted(now.Add(time.Hour))
	assert.False(t, done.HasCalendarAccess())

	// Approved status alone is not enough without the unlocked flag.
	stale := MentorshipRequest{Status: StatusApproved, CalendarAccess: &CalendarAccess{IsUnlocked: false}}
	assert.False(t, stale.HasCalendarAccess())
}

func TestIsOutstanding(t *testing.T) {
	assert.True(t, (&MentorshipRequest{Status: StatusPending}).IsOutstanding())
	assert.True(t, (&MentorshipRequest{Status: StatusApproved}).IsOutstanding())
	assert.False(t, (&MentorshipRequest{Status: StatusRejected}).IsOutstanding())
	assert.False(t, (&MentorshipRequest{Status: StatusDone}).IsOutstanding())
}

func TestCalendarAccessJSONKeys(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	access := CalendarAccess{IsUnlocked: true, UnlockedAt: &now}

	value, err := access.Value()
	require.NoError(t, err)

	raw := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(value.([]byte), &raw))
	assert.Contains(t, raw, "isUnlocked")
	assert.Contains(t, raw, "unlockedAt")
	assert.NotContains(t, raw, "lockedAt")
}

func TestCalendarAccessScan(t *testing.T) {
	var access CalendarAccess
	require.NoError(t, access.Scan([]byte(`{"isUnlocked":true,"unlockedAt":"2026-03-01T10:00:00Z"}`)))
	assert.True(t, access.IsUnlocked)
	require.NotNil(t, access.UnlockedAt)

	var fromString CalendarAccess
	require.NoError(t, fromString.Scan(`{"isUnlocked":false}`))
	assert.False(t, fromString.IsUnlocked)

	var fromNil CalendarAccess
	require.NoError(t, fromNil.Scan(nil))
	assert.Equal(t, CalendarAccess{}, fromNil)

	assert.Error(t, (&CalendarAccess{}).Scan(42))
}

func TestScheduleUpcomingMeetings(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	schedule := Schedule{Meetings: []Meeting{
		{ID: "m-past", StartsAt: now.Add(-time.Hour)},
		{ID: "m-later", StartsAt: now.Add(48 * time.Hour)},
		{ID: "m-soon", StartsAt: now.Add(time.Hour)},
	}}

	upcoming := schedule.UpcomingMeetings(now)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "m-soon", upcoming[0].ID)
	assert.Equal(t, "m-later", upcoming[1].ID)
}
