package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected int
	}{
		{"validation", Validation("compare", "grocery list is empty"), http.StatusBadRequest},
		{"dependency", Dependency("compare", "store lookup failed", assert.AnError), http.StatusServiceUnavailable},
		{"timeout", Timeout("compare", "no store finished", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unknown", &Error{Message: "boom"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.HTTPStatus())
		})
	}
}

func TestError_WrapsCause(t *testing.T) {
	err := fmt.Errorf("service: %w", Timeout("compare", "no store finished", context.DeadlineExceeded))

	assert.True(t, Is(err, KindTimeout))
	assert.False(t, Is(err, KindValidation))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "service: compare: no store finished: context deadline exceeded", err.Error())
	assert.Equal(t, KindUnknown, KindOf(assert.AnError))
}

func TestStoreFailure(t *testing.T) {
	f := &StoreFailure{StoreID: 7, Err: context.Canceled}

	assert.Equal(t, "store 7: context canceled", f.Error())
	assert.True(t, errors.Is(f, context.Canceled))
}
