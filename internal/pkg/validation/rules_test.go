package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinInput struct {
	Pin string `validate:"omitempty,pin"`
}

func TestPinRule(t *testing.T) {
	v := New()

	tests := []struct {
		pin   string
		valid bool
	}{
		{"", true},
		{"1234", true},
		{"1234567890123456", true},
		{"123", false},
		{"12345678901234567", false},
		{"12a4", false},
	}

	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			err := v.Struct(pinInput{Pin: tt.pin})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				details := FieldErrors(err)
				assert.Equal(t, "Pin must be 4-16 digits", details["pinInput.Pin"])
			}
		})
	}
}

func TestFieldErrorsWithForeignError(t *testing.T) {
	details := FieldErrors(errors.New("unexpected EOF"))
	assert.Equal(t, map[string]interface{}{"body": "unexpected EOF"}, details)
}

type namedInput struct {
	GivenName string `json:"givenname" validate:"required"`
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	err := New().Struct(namedInput{})
	require.Error(t, err)
	assert.Equal(t, map[string]interface{}{"namedInput.givenname": "givenname is required"}, FieldErrors(err))
}
