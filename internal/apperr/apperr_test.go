package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := NotFoundf("engineer %s", "e1")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, NotFound, kind)
}

func TestKindOfUnclassified(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestIs(t *testing.T) {
	err := Conflictf("version mismatch")
	assert.True(t, Is(err, Conflict))
	assert.False(t, Is(err, NoSlot))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("bolt closed")
	err := Wrap(InvalidState, "cannot apply", cause)
	assert.ErrorIs(t, err, cause)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, InvalidState, kind)
}

func TestErrorStringsIncludeKindAndMessage(t *testing.T) {
	err := fmt.Errorf("context: %w", Forbiddenf("actor not owner"))
	assert.Contains(t, err.Error(), "forbidden")
	assert.Contains(t, err.Error(), "actor not owner")
}

func TestAllConstructors(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
	}{
		{NotFoundf("x"), NotFound},
		{Conflictf("x"), Conflict},
		{NoSlotf("x"), NoSlot},
		{InvalidStatef("x"), InvalidState},
		{Forbiddenf("x"), Forbidden},
		{InvalidInputf("x"), InvalidInput},
	}
	for _, c := range cases {
		kind, ok := KindOf(c.err)
		require.True(t, ok)
		assert.Equal(t, c.kind, kind)
	}
}
