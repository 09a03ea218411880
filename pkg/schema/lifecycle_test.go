package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle(t *testing.T) {
	t.Run("synthesized path", func(t *testing.T) {
		lc := newLifecycle()
		require.NoError(t, lc.fire(eventResolve))
		require.NoError(t, lc.fire(eventSynthesize))
		require.NoError(t, lc.fire(eventInclude))
		assert.Equal(t, StateIncluded, lc.state)
		assert.Len(t, lc.history, 4)
	})

	t.Run("pass-through path", func(t *testing.T) {
		lc := newLifecycle()
		require.NoError(t, lc.fire(eventResolve))
		require.NoError(t, lc.fire(eventPassThrough))
		assert.Equal(t, StateIncluded, lc.state)
	})

	t.Run("rejects out of order events", func(t *testing.T) {
		lc := newLifecycle()
		err := lc.fire(eventInclude)
		var nt *ErrNoTransition
		require.ErrorAs(t, err, &nt)
		assert.Equal(t, StateUnvisited, nt.State)
		assert.Equal(t, StateUnvisited, lc.state)

		require.NoError(t, lc.fire(eventResolve))
		require.NoError(t, lc.fire(eventPassThrough))
		assert.Error(t, lc.fire(eventSynthesize), "included is terminal")
	})
}
