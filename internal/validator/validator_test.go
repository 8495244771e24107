package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	ierr "github.com/gfamlabs/agencydesk/internal/errors"
)

type sampleRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

func TestValidateRequestRequiresInitialization(t *testing.T) {
	validate = nil

	err := ValidateRequest(&sampleRequest{Name: "A", Email: "a@b.com"})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrSystem))

	NewValidator()

	err = ValidateRequest(&sampleRequest{Name: "A", Email: "a@b.com"})
	assert.NoError(t, err)
}

func TestValidateRequestFieldErrors(t *testing.T) {
	NewValidator()

	err := ValidateRequest(&sampleRequest{Email: "not-an-email"})
	assert.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
