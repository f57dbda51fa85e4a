package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "reportit/internal/errors"
)

func TestRequire_AllPresent(t *testing.T) {
	err := Require(
		Field{Name: "email", Value: "a@x.com"},
		Field{Name: "password", Value: "secret1"},
	)
	assert.NoError(t, err)
}

func TestRequire_FirstMissingWins(t *testing.T) {
	err := Require(
		Field{Name: "email", Value: ""},
		Field{Name: "password", Value: ""},
	)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Equal(t, "email is required", err.Error())
}

func TestRequire_WhitespaceOnlyIsMissing(t *testing.T) {
	err := Require(Field{Name: "barangay", Value: "   "})

	assert.Error(t, err)
	assert.Equal(t, "barangay is required", err.Error())
}

func TestRequire_NoFields(t *testing.T) {
	assert.NoError(t, Require())
}
