// Package pagination implements the two addressing modes used by directory and
// request listings: offset pagination with a freshly counted total, and opaque
// keyset cursors for infinite scroll.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"

	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/validation"
)

// Order directions accepted by Normalize.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Options captures offset pagination parameters.
type Options struct {
	Page           int    `json:"page"`
	Limit          int    `json:"limit"`
	OrderBy        string `json:"order_by"`
	OrderDirection string `json:"order_direction"`
}

// Meta describes the position of a page within the full result set.
type Meta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Normalize merges the provided options over defaults and validates the merged
// values. A zero page or limit means "omitted" and takes the default; rejecting
// an explicit zero is the transport layer's job, which sees the raw parameter.
func Normalize(opts Options, defaults Options) (Options, error) {
	merged := Options{
		Page:           opts.Page,
		Limit:          opts.Limit,
		OrderBy:        opts.OrderBy,
		OrderDirection: opts.OrderDirection,
	}
	if opts.Page == 0 {
		merged.Page = defaults.Page
	}
	if opts.Limit == 0 {
		merged.Limit = defaults.Limit
	}
	if merged.OrderBy == "" {
		merged.OrderBy = defaults.OrderBy
	}
	if merged.OrderDirection == "" {
		merged.OrderDirection = defaults.OrderDirection
	}

	if err := validation.AssertPositiveInteger(merged.Page, "page"); err != nil {
		return Options{}, err
	}
	if err := validation.AssertPositiveInteger(merged.Limit, "limit"); err != nil {
		return Options{}, err
	}
	if merged.OrderDirection != OrderAsc && merged.OrderDirection != OrderDesc {
		return Options{}, appErrors.Validation(`order direction must be either "asc" or "desc"`)
	}

	if merged.Page < 1 {
		merged.Page = 1
	}
	return merged, nil
}

// NewMeta computes page arithmetic for an offset page. Limit must be positive.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Meta{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// Cursor is an opaque keyset position: the order value and id of the last item
// of the previous page.
type Cursor string

// EncodeCursor packs the keyset pair into an opaque token.
func EncodeCursor(orderValue, id string) Cursor {
	raw := orderValue + "\x00" + id
	return Cursor(base64.RawURLEncoding.EncodeToString([]byte(raw)))
}

// DecodeCursor unpacks a cursor token. An empty cursor means "from the start".
func DecodeCursor(c Cursor) (orderValue, id string, err error) {
	if c == "" {
		return "", "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return "", "", appErrors.Validation("cursor is malformed")
	}
	parts := strings.SplitN(string(raw), "\x00", 2)
	if len(parts) != 2 {
		return "", "", appErrors.Validation(fmt.Sprintf("cursor %q is malformed", c))
	}
	return parts[0], parts[1], nil
}
