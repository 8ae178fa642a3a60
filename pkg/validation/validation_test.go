package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

func TestAssertNonEmptyString(t *testing.T) {
	assert.NoError(t, AssertNonEmptyString("mentor-100", "mentor id"))
	assert.Error(t, AssertNonEmptyString("", "mentor id"))
	assert.Error(t, AssertNonEmptyString("   ", "mentor id"))
}

func TestAssertPositiveInteger(t *testing.T) {
	assert.NoError(t, AssertPositiveInteger(1, "page"))
	assert.Error(t, AssertPositiveInteger(0, "page"))
	assert.Error(t, AssertPositiveInteger(-5, "page"))
}

func TestAssertUID(t *testing.T) {
	assert.NoError(t, AssertUID("user-100", "user id"))

	err := AssertUID("abc", "user id")
	assert.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))

	assert.Error(t, AssertUID("", "user id"))
}
