// Package kv defines the abstraction of a durable key/value database.
//
// The package also implements a default database implementation that is using
// bbolt as the engine (https://github.com/etcd-io/bbolt).
package kv

import "go.dedis.ch/dvote/core/store"

// Bucket is a general interface to operate on a database bucket.
type Bucket interface {
	// Get reads the key from the bucket and returns the value, or nil if the
	// key does not exist.
	Get(key []byte) []byte

	// Set assigns the value to the provided key.
	Set(key, value []byte) error

	// Delete deletes the key from the bucket.
	Delete(key []byte) error

	// ForEach iterates over all the items in the bucket in an unspecified
	// order. The iteration stops when the callback returns an error.
	ForEach(func(k, v []byte) error) error
}

// DB is a general interface to operate over a key/value database.
type DB interface {
	// View executes the provided read-only transaction in the context of the
	// bucket.
	View(bucket []byte, fn func(Bucket) error) error

	// Update executes the provided writable transaction in the context of the
	// bucket, creating it when necessary.
	Update(bucket []byte, fn func(Bucket) error) error

	// Close closes the database and frees the resources.
	Close() error
}

// Snapshot adapts a bucket to the store.Snapshot interface so that programs
// can execute directly against the database inside an update transaction.
//
// - implements store.Snapshot
type Snapshot struct {
	bucket Bucket
}

// NewSnapshot creates a snapshot backed by the bucket.
func NewSnapshot(bucket Bucket) Snapshot {
	return Snapshot{bucket: bucket}
}

// Get implements store.Readable.
func (s Snapshot) Get(key []byte) ([]byte, error) {
	return s.bucket.Get(key), nil
}

// Set implements store.Writable.
func (s Snapshot) Set(key, value []byte) error {
	return s.bucket.Set(key, value)
}

// Delete implements store.Writable.
func (s Snapshot) Delete(key []byte) error {
	return s.bucket.Delete(key)
}

// make sure the adapter satisfies the interface
var _ store.Snapshot = Snapshot{}
