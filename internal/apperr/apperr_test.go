package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{Forbidden, http.StatusForbidden},
		{Unauthenticated, http.StatusUnauthorized},
		{Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(New(tt.kind, "boom")))
	}

	// Unclassified errors default to 500.
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
}

func TestIsMatchesWrappedErrors(t *testing.T) {
	err := fmt.Errorf("load product: %w", New(NotFound, "product not found"))
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, Validation))
}

func TestUserMessageMasksInternal(t *testing.T) {
	assert.Equal(t, "rating must be between 1 and 5",
		UserMessage(New(Validation, "rating must be between 1 and 5")))

	msg := UserMessage(Wrap(Internal, errors.New("pq: connection refused"), "query products"))
	assert.NotContains(t, msg, "pq:")

	msg = UserMessage(errors.New("pq: connection refused"))
	assert.NotContains(t, msg, "pq:")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("row scan failed")
	err := Wrap(Internal, cause, "load order")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "load order")
}
