// Package validation holds the loose sanity checks shared by services and the
// pagination engine. Structured payload validation stays with validator/v10 at
// the service boundary; these helpers cover the identifiers and scalars that
// arrive outside of a bound struct.
package validation

import (
	"strings"

	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// MinUIDLength is a sanity floor for user identifiers, not a format check.
const MinUIDLength = 5

// AssertNonEmptyString fails when the value is empty after trimming.
func AssertNonEmptyString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return appErrors.Validation(field + " is required")
	}
	return nil
}

// AssertPositiveInteger fails unless the value is a positive integer.
func AssertPositiveInteger(value int, field string) error {
	if value <= 0 {
		return appErrors.Validation(field + " must be a positive integer")
	}
	return nil
}

// AssertUID fails when the value cannot plausibly be a user id.
func AssertUID(value, field string) error {
	if err := AssertNonEmptyString(value, field); err != nil {
		return err
	}
	if len(value) < MinUIDLength {
		return appErrors.Validation(field + " appears to be invalid")
	}
	return nil
}
