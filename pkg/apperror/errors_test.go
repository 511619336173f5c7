package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("checkout: %w", NewConflictError("Order already completed"))
	appErr := GetAppError(wrapped)
	assert.Equal(t, http.StatusConflict, appErr.Code)

	internal := GetAppError(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, internal.Code)
	assert.Equal(t, "Internal server error", internal.Message)
}

func TestNewFieldErrorKeepsCause(t *testing.T) {
	cause := errors.New("discount code is not valid")
	err := NewFieldError("discount_code", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Equal(t, "discount_code", err.Errors[0].Field)
}
