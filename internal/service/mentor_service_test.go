package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/stream"
	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/pagination"
)

type directoryFake struct {
	mentors []models.User
	err     error

	lastExclude string
	lastOpts    pagination.Options
	lastCursor  pagination.Cursor
	lastLimit   int
}

func (f *directoryFake) ListDirectory(ctx context.Context, excludeUID string, opts pagination.Options) ([]models.User, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.lastExclude = excludeUID
	f.lastOpts = opts
	return f.mentors, len(f.mentors) + 30, nil
}

func (f *directoryFake) ScrollDirectory(ctx context.Context, excludeUID string, cursor pagination.Cursor, limit int) ([]models.User, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	f.lastExclude = excludeUID
	f.lastCursor = cursor
	f.lastLimit = limit
	return f.mentors, len(f.mentors) >= limit, nil
}

func (f *directoryFake) WatchDirectory(ctx context.Context, excludeUID string, opts pagination.Options) <-chan stream.Snapshot[[]models.User] {
	out := make(chan stream.Snapshot[[]models.User], 1)
	out <- stream.Snapshot[[]models.User]{Data: f.mentors}
	close(out)
	return out
}

func TestListMentorsAppliesDirectoryDefaults(t *testing.T) {
	directory := &directoryFake{mentors: []models.User{{UID: "mentor-1", DisplayName: "Ada"}}}
	service := NewMentorService(directory, identityStub{uid: "viewer-100"}, nil, 12, 50)

	page, err := service.ListMentors(context.Background(), pagination.Options{})
	require.NoError(t, err)
	assert.Equal(t, "viewer-100", directory.lastExclude)
	assert.Equal(t, 1, directory.lastOpts.Page)
	assert.Equal(t, 12, directory.lastOpts.Limit)
	assert.Equal(t, "displayName", directory.lastOpts.OrderBy)
	assert.Equal(t, pagination.OrderAsc, directory.lastOpts.OrderDirection)
	assert.Equal(t, 31, page.Meta.Total)
	assert.True(t, page.Meta.HasNext)
}

func TestListMentorsClampsOversizedLimit(t *testing.T) {
	directory := &directoryFake{}
	service := NewMentorService(directory, identityStub{uid: "viewer-100"}, nil, 12, 50)

	_, err := service.ListMentors(context.Background(), pagination.Options{Page: 1, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, directory.lastOpts.Limit)
}

func TestListMentorsRejectsBadDirection(t *testing.T) {
	service := NewMentorService(&directoryFake{}, identityStub{uid: "viewer-100"}, nil, 12, 50)

	_, err := service.ListMentors(context.Background(), pagination.Options{Page: 1, Limit: 12, OrderBy: "displayName", OrderDirection: "sideways"})
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}

func TestScrollMentorsBuildsNextCursor(t *testing.T) {
	directory := &directoryFake{mentors: []models.User{
		{UID: "mentor-1", DisplayName: "Ada"},
		{UID: "mentor-2", DisplayName: "Grace"},
	}}
	service := NewMentorService(directory, identityStub{uid: "viewer-100"}, nil, 12, 50)

	scroll, err := service.ScrollMentors(context.Background(), "", 2)
	require.NoError(t, err)
	assert.True(t, scroll.HasMore)
	name, uid, err := pagination.DecodeCursor(scroll.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, "Grace", name)
	assert.Equal(t, "mentor-2", uid)
}

func TestScrollMentorsEmptyCursorWhenExhausted(t *testing.T) {
	directory := &directoryFake{mentors: []models.User{{UID: "mentor-1", DisplayName: "Ada"}}}
	service := NewMentorService(directory, identityStub{uid: "viewer-100"}, nil, 12, 50)

	scroll, err := service.ScrollMentors(context.Background(), "", 5)
	require.NoError(t, err)
	assert.False(t, scroll.HasMore)
	assert.Empty(t, scroll.NextCursor)
}

func TestWatchMentorsEmitsDirectorySnapshot(t *testing.T) {
	directory := &directoryFake{mentors: []models.User{{UID: "mentor-1", DisplayName: "Ada"}}}
	service := NewMentorService(directory, identityStub{uid: "viewer-100"}, nil, 12, 50)

	ch, err := service.WatchMentors(context.Background())
	require.NoError(t, err)
	snapshot := <-ch
	require.NoError(t, snapshot.Err)
	require.Len(t, snapshot.Data, 1)
	assert.Equal(t, "Ada", snapshot.Data[0].DisplayName)
}
