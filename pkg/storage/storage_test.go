package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveSaveReadRemove(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, archive.Save("history.csv", []byte("Request ID,Mentee\n")))

	data, err := archive.Read("history.csv")
	require.NoError(t, err)
	assert.Equal(t, "Request ID,Mentee\n", string(data))

	require.NoError(t, archive.Remove("history.csv"))
	_, err = archive.Read("history.csv")
	assert.Error(t, err)
}

func TestArchiveRejectsPathTraversal(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, archive.Save("../escape.csv", []byte("x")))
	assert.Error(t, archive.Save("nested/file.csv", []byte("x")))
	_, err = archive.Read(".hidden")
	assert.Error(t, err)
}

func TestArchiveCleanupOlderThan(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, archive.Save("stale.csv", []byte("old")))
	require.NoError(t, archive.Save("fresh.csv", []byte("new")))

	// Everything was just written, so nothing is older than an hour.
	deleted, err := archive.CleanupOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Empty(t, deleted)

	// A zero TTL treats every file as stale.
	deleted, err = archive.CleanupOlderThan(0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"stale.csv", "fresh.csv"}, deleted)
}

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("secret", time.Hour)

	token, expiresAt, err := signer.Sign("mentorship_requests_20260831_120000.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	filename, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "mentorship_requests_20260831_120000.csv", filename)
}

func TestSignerRejectsTampering(t *testing.T) {
	signer := NewSigner("secret", time.Hour)
	token, _, err := signer.Sign("history.csv")
	require.NoError(t, err)

	_, err = signer.Verify(token + "x")
	assert.Error(t, err)

	_, err = NewSigner("other-secret", time.Hour).Verify(token)
	assert.Error(t, err)

	_, err = signer.Verify("not-a-token")
	assert.Error(t, err)
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	signer := NewSigner("secret", time.Nanosecond)
	token, _, err := signer.Sign("history.csv")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = signer.Verify(token)
	assert.Error(t, err)
}

func TestSignerRequiresSecret(t *testing.T) {
	_, _, err := NewSigner("", time.Hour).Sign("history.csv")
	assert.Error(t, err)
}
