package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoltDB(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	bucket := []byte("bucket")

	err = db.View(bucket, func(Bucket) error { return nil })
	require.EqualError(t, err, "bucket '6275636b6574' not found")

	err = db.Update(bucket, func(b Bucket) error {
		require.Nil(t, b.Get([]byte("ping")))

		return b.Set([]byte("ping"), []byte("pong"))
	})
	require.NoError(t, err)

	err = db.View(bucket, func(b Bucket) error {
		require.Equal(t, []byte("pong"), b.Get([]byte("ping")))

		count := 0
		err := b.ForEach(func(k, v []byte) error {
			count++
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 1, count)

		return nil
	})
	require.NoError(t, err)

	err = db.Update(bucket, func(b Bucket) error {
		return b.Delete([]byte("ping"))
	})
	require.NoError(t, err)

	err = db.View(bucket, func(b Bucket) error {
		require.Nil(t, b.Get([]byte("ping")))

		return nil
	})
	require.NoError(t, err)
}

func TestSnapshot(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	err = db.Update([]byte("bucket"), func(b Bucket) error {
		snap := NewSnapshot(b)

		require.NoError(t, snap.Set([]byte("key"), []byte("value")))

		value, err := snap.Get([]byte("key"))
		require.NoError(t, err)
		require.Equal(t, []byte("value"), value)

		require.NoError(t, snap.Delete([]byte("key")))

		value, err = snap.Get([]byte("key"))
		require.NoError(t, err)
		require.Nil(t, value)

		return nil
	})
	require.NoError(t, err)
}
