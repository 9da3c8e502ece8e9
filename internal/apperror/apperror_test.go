package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Brownie44l1/plant-api/internal/apperror"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     apperror.Error
		code    int
		message string
	}{
		{"no file", apperror.ErrNoFile(cause), http.StatusBadRequest, "No file provided"},
		{"no selected file", apperror.ErrNoSelectedFile(cause), http.StatusBadRequest, "No selected file"},
		{"invalid image", apperror.ErrInvalidImage(cause), http.StatusBadRequest, "Invalid image file"},
		{"no prediction", apperror.ErrNoPrediction(cause), http.StatusInternalServerError, "No valid prediction made"},
		{"prediction", apperror.ErrPrediction(cause), http.StatusInternalServerError,
			"An error occurred during prediction. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.HTTPCode)
			assert.Equal(t, tt.message, tt.err.Message)
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "No file provided", apperror.ErrNoFile(nil).Error())
	assert.Equal(t, "Invalid image file: unexpected EOF",
		apperror.ErrInvalidImage(errors.New("unexpected EOF")).Error())
}

func TestErrorsAs(t *testing.T) {
	var wrapped error = apperror.ErrNoPrediction(nil)

	var appErr apperror.Error
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
}
