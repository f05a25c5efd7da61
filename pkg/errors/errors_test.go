package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorString(t *testing.T) {
	err := InvalidInput("quantity must be at least 1")
	assert.Equal(t, "INVALID_INPUT: quantity must be at least 1: invalid input", err.Error())

	bare := &AppError{Code: "CONFLICT", Message: "duplicate"}
	assert.Equal(t, "CONFLICT: duplicate", bare.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	err := InvalidInput("quantity must be at least 1")
	assert.True(t, errors.Is(err, ErrInvalidInput))

	assert.True(t, errors.Is(Unavailable("catalog down"), ErrUnavailable))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error invalid input", InvalidInput("bad"), http.StatusBadRequest},
		{"app error unavailable", Unavailable("redis down"), http.StatusServiceUnavailable},
		{"wrapped not found sentinel", fmt.Errorf("load: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped conflict sentinel", fmt.Errorf("save: %w", ErrConflict), http.StatusConflict},
		{"unknown error", errors.New("whatever"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
