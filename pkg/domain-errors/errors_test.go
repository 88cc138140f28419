package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeContractViolation, "missing fields")
		assert.True(t, HasCode(err, CodeContractViolation))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("collect default: %w", New(CodeUpstreamMandatory, "scorer down"))
		assert.True(t, HasCode(err, CodeUpstreamMandatory))
	})

	t.Run("matches inner code of nested domain errors", func(t *testing.T) {
		inner := New(CodeContractViolation, "bad payload")
		outer := Wrap(inner, CodeUpstreamMandatory, "default scorer")
		assert.True(t, HasCode(outer, CodeUpstreamMandatory))
		assert.True(t, HasCode(outer, CodeContractViolation))
	})

	t.Run("foreign errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
}
