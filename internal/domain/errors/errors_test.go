package errors

import (
	"testing"

	"coti/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_WithDetailsKeepsIdentity(t *testing.T) {
	err := ErrValidationFailed.WithDetails("la cantidad debe ser positiva")

	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.Equal(t, "la cantidad debe ser positiva", err.Details())
	assert.Equal(t, ErrValidationFailed.ErrorCode(), err.ErrorCode())
	assert.Equal(t, ErrValidationFailed.HTTPCode(), err.HTTPCode())
}

func TestBaseError_IsMatchesThroughWrapping(t *testing.T) {
	err := errors.Wrap(ErrListNotActive.WithDetails("carrera perdida"), "accept raced")

	assert.True(t, errors.Is(err, ErrListNotActive))
	assert.False(t, errors.Is(err, ErrValidationFailed))
}

func TestBaseError_IsDistinguishesCodes(t *testing.T) {
	assert.False(t, errors.Is(ErrOfferNotFound, ErrListNotFound))
	assert.False(t, errors.Is(ErrValidationFailed, errors.New("validation failed")))
	assert.True(t, errors.Is(ErrConflict.WrapMessage("order already exists"), ErrConflict))
}
