package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrorTypeAPI, 15, "access denied")
	assert.Equal(t, "api error (code 15): access denied", err.Error())

	wrapped := Wrap(ErrorTypeNetwork, 0, "request failed", context.DeadlineExceeded)
	assert.Contains(t, wrapped.Error(), "network error (code 0): request failed")
	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"typed", New(ErrorTypeParsing, 200, "bad json"), ErrorTypeParsing},
		{"wrapped by fmt", fmt.Errorf("fetch: %w", New(ErrorTypeRateLimit, 429, "slow down")), ErrorTypeRateLimit},
		{"plain", errors.New("boom"), ErrorTypeUnknown},
		{"nil", nil, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeOf(tt.err))
		})
	}

	assert.False(t, Is(nil, ErrorTypeUnknown))
	assert.True(t, Is(New(ErrorTypeAPI, 1, "x"), ErrorTypeAPI))
}

func TestTypeForStatus(t *testing.T) {
	assert.Equal(t, ErrorTypeNetwork, TypeForStatus(0))
	assert.Equal(t, ErrorTypeNotFound, TypeForStatus(404))
	assert.Equal(t, ErrorTypeRateLimit, TypeForStatus(429))
	assert.Equal(t, ErrorTypeServerError, TypeForStatus(503))
	assert.Equal(t, ErrorTypeUnknown, TypeForStatus(418))
}
