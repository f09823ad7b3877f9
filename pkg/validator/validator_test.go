package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Username string `validate:"required,min=3,max=64"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidateSuccess(t *testing.T) {
	err := Validate(registerPayload{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "longenough",
	})
	assert.NoError(t, err)
}

func TestValidateFieldMessages(t *testing.T) {
	err := Validate(registerPayload{
		Username: "al",
		Email:    "not-an-email",
	})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "must be at least 3 characters", fields["Username"])
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "is required", fields["Password"])
}

func TestValidateErrorString(t *testing.T) {
	err := Validate(registerPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username")
	assert.Contains(t, err.Error(), "is required")
}
