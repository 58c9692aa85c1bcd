package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	snap := NewSnapshot()

	value, err := snap.Get([]byte("ping"))
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, snap.Set([]byte("ping"), []byte("pong")))

	value, err = snap.Get([]byte("ping"))
	require.NoError(t, err)
	require.Equal(t, []byte("pong"), value)

	require.NoError(t, snap.Delete([]byte("ping")))

	value, err = snap.Get([]byte("ping"))
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestOverlay(t *testing.T) {
	parent := NewSnapshot()
	require.NoError(t, parent.Set([]byte("a"), []byte{1}))

	overlay := NewOverlay(parent)

	// reads fall through to the parent
	value, err := overlay.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte{1}, value)

	require.NoError(t, overlay.Set([]byte("b"), []byte{2}))
	require.NoError(t, overlay.Delete([]byte("a")))

	value, err = overlay.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, value)

	// the parent is untouched until the flush
	value, err = parent.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte{1}, value)

	value, err = parent.Get([]byte("b"))
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, overlay.Flush())

	value, err = parent.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, value)

	value, err = parent.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte{2}, value)
}

func TestOverlay_SetAfterDelete(t *testing.T) {
	parent := NewSnapshot()
	overlay := NewOverlay(parent)

	require.NoError(t, overlay.Delete([]byte("a")))
	require.NoError(t, overlay.Set([]byte("a"), []byte{3}))

	value, err := overlay.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte{3}, value)
}
