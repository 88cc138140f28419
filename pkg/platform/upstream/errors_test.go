package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromTransport(t *testing.T) {
	t.Run("deadline maps to retryable timeout", func(t *testing.T) {
		err := FromTransport("sensor", fmt.Errorf("get: %w", context.DeadlineExceeded))
		assert.Equal(t, CategoryTimeout, CategoryOf(err))
		assert.True(t, IsRetryable(err))
	})

	t.Run("generic failure maps to outage", func(t *testing.T) {
		err := FromTransport("bridge", errors.New("connection refused"))
		assert.Equal(t, CategoryOutage, CategoryOf(err))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, FromTransport("bridge", nil))
	})
}

func TestFromStatus(t *testing.T) {
	err := FromStatus("bridge", http.StatusBadGateway)
	assert.Equal(t, CategoryOutage, CategoryOf(err))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))

	err = FromStatus("sensor", http.StatusBadRequest)
	assert.Equal(t, CategoryRejected, CategoryOf(err))
	assert.False(t, IsRetryable(err))
}

func TestCategoryOfForeignError(t *testing.T) {
	assert.Equal(t, CategoryInternal, CategoryOf(errors.New("x")))
	assert.Equal(t, 0, StatusOf(errors.New("x")))
}
