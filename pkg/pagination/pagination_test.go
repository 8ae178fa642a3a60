package pagination

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

var requestDefaults = Options{Page: 1, Limit: 10, OrderBy: "createdAt", OrderDirection: "desc"}

func TestNormalizeAppliesDefaults(t *testing.T) {
	opts, err := Normalize(Options{}, requestDefaults)
	require.NoError(t, err)
	assert.Equal(t, requestDefaults, opts)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	opts, err := Normalize(Options{Page: 3, Limit: 25, OrderBy: "updatedAt", OrderDirection: "asc"}, requestDefaults)
	require.NoError(t, err)
	assert.Equal(t, Options{Page: 3, Limit: 25, OrderBy: "updatedAt", OrderDirection: "asc"}, opts)
}

func TestNormalizeDefaultsOmittedPage(t *testing.T) {
	opts, err := Normalize(Options{Page: 0, Limit: 10}, requestDefaults)
	require.NoError(t, err)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)
}

func TestNormalizeDefaultsPageWhenOnlyOrderBySet(t *testing.T) {
	opts, err := Normalize(Options{OrderBy: "createdAt"}, requestDefaults)
	require.NoError(t, err)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, "createdAt", opts.OrderBy)
	assert.Equal(t, OrderDesc, opts.OrderDirection)
}

func TestNormalizeRejectsNegativePage(t *testing.T) {
	_, err := Normalize(Options{Page: -1}, requestDefaults)
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}

func TestNormalizeRejectsBadDirection(t *testing.T) {
	_, err := Normalize(Options{OrderDirection: "sideways"}, requestDefaults)
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}

func TestNewMeta(t *testing.T) {
	cases := []struct {
		name        string
		page        int
		limit       int
		total       int
		totalPages  int
		hasNext     bool
		hasPrevious bool
	}{
		{name: "empty set", page: 1, limit: 10, total: 0, totalPages: 0},
		{name: "single partial page", page: 1, limit: 10, total: 7, totalPages: 1},
		{name: "exact multiple", page: 1, limit: 10, total: 20, totalPages: 2, hasNext: true},
		{name: "middle page", page: 2, limit: 10, total: 35, totalPages: 4, hasNext: true, hasPrevious: true},
		{name: "last page", page: 4, limit: 10, total: 35, totalPages: 4, hasPrevious: true},
		{name: "page past end", page: 9, limit: 10, total: 35, totalPages: 4, hasPrevious: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			meta := NewMeta(tc.page, tc.limit, tc.total)
			assert.Equal(t, tc.totalPages, meta.TotalPages)
			assert.Equal(t, tc.hasNext, meta.HasNext)
			assert.Equal(t, tc.hasPrevious, meta.HasPrevious)
			assert.Equal(t, tc.total, meta.Total)
		})
	}
}

func TestNewMetaInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		total := rng.Intn(5000)
		limit := 1 + rng.Intn(100)
		page := 1 + rng.Intn(60)

		meta := NewMeta(page, limit, total)
		if total == 0 {
			assert.Zero(t, meta.TotalPages)
		} else {
			require.Positive(t, meta.TotalPages)
			assert.GreaterOrEqual(t, meta.TotalPages*limit, total,
				"every item must fit within the counted pages")
			assert.Less(t, (meta.TotalPages-1)*limit, total,
				"the last page must not be empty")
		}
		assert.Equal(t, page*limit < total, meta.HasNext,
			"hasNext holds exactly when items remain past this page (page=%d limit=%d total=%d)", page, limit, total)
		assert.Equal(t, page > 1, meta.HasPrevious)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := EncodeCursor("Grace Hopper", "mentor-042")
	orderValue, id, err := DecodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", orderValue)
	assert.Equal(t, "mentor-042", id)
}

func TestCursorRoundTripWithSeparatorInValue(t *testing.T) {
	cursor := EncodeCursor("name\x00with-null", "mentor-1")
	orderValue, id, err := DecodeCursor(cursor)
	require.NoError(t, err)
	// SplitN(2) keeps everything after the first separator in the id half,
	// so a null byte inside the order value shifts the boundary.
	assert.Equal(t, "name", orderValue)
	assert.Equal(t, "with-null\x00mentor-1", id)
}

func TestDecodeCursorEmptyMeansStart(t *testing.T) {
	orderValue, id, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Empty(t, orderValue)
	assert.Empty(t, id)
}

func TestDecodeCursorMalformed(t *testing.T) {
	_, _, err := DecodeCursor("!!not-base64!!")
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}

func TestDecodeCursorMissingSeparator(t *testing.T) {
	_, _, err := DecodeCursor(Cursor("bm9zZXBhcmF0b3I"))
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}
