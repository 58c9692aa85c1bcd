// Package mem provides in-memory implementations of the store abstraction.
//
// The snapshot keeps every write in a map and is used as the reference store
// in tests. The overlay stacks on top of another snapshot and buffers the
// writes until they are explicitly flushed, which is how the execution
// service gets the all-or-nothing commit of the host: a failed invocation
// simply drops the overlay.
package mem

import (
	"go.dedis.ch/dvote/core/store"
	"golang.org/x/xerrors"
)

// Snapshot is an in-memory implementation of a store snapshot.
//
// - implements store.Snapshot
type Snapshot struct {
	values map[string][]byte
}

// NewSnapshot creates a new empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		values: make(map[string][]byte),
	}
}

// Get implements store.Readable. It returns nil if the key does not exist.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	return s.values[string(key)], nil
}

// Set implements store.Writable.
func (s *Snapshot) Set(key, value []byte) error {
	s.values[string(key)] = value

	return nil
}

// Delete implements store.Writable.
func (s *Snapshot) Delete(key []byte) error {
	delete(s.values, string(key))

	return nil
}

// Overlay is a snapshot that buffers the writes on top of a parent store. The
// parent is never written before Flush is called.
//
// - implements store.Snapshot
type Overlay struct {
	parent  store.Snapshot
	updates map[string][]byte
	deleted map[string]struct{}
}

// NewOverlay creates an overlay on top of the parent snapshot.
func NewOverlay(parent store.Snapshot) *Overlay {
	return &Overlay{
		parent:  parent,
		updates: make(map[string][]byte),
		deleted: make(map[string]struct{}),
	}
}

// Get implements store.Readable. It looks up the buffered writes first and
// falls back to the parent.
func (o *Overlay) Get(key []byte) ([]byte, error) {
	if _, ok := o.deleted[string(key)]; ok {
		return nil, nil
	}

	value, ok := o.updates[string(key)]
	if ok {
		return value, nil
	}

	value, err := o.parent.Get(key)
	if err != nil {
		return nil, xerrors.Errorf("parent: %v", err)
	}

	return value, nil
}

// Set implements store.Writable. It buffers the write.
func (o *Overlay) Set(key, value []byte) error {
	o.updates[string(key)] = value
	delete(o.deleted, string(key))

	return nil
}

// Delete implements store.Writable. It buffers the deletion.
func (o *Overlay) Delete(key []byte) error {
	delete(o.updates, string(key))
	o.deleted[string(key)] = struct{}{}

	return nil
}

// Flush applies the buffered writes to the parent snapshot.
func (o *Overlay) Flush() error {
	for key := range o.deleted {
		err := o.parent.Delete([]byte(key))
		if err != nil {
			return xerrors.Errorf("failed to delete '%x': %v", key, err)
		}
	}

	for key, value := range o.updates {
		err := o.parent.Set([]byte(key), value)
		if err != nil {
			return xerrors.Errorf("failed to set '%x': %v", key, err)
		}
	}

	o.updates = make(map[string][]byte)
	o.deleted = make(map[string]struct{})

	return nil
}
