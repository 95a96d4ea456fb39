package segment

import (
	"bytes"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/google/btree"
	"github.com/hupe1980/kvgo/internal/wal"
)

const btreeDegree = 32

// Tree is a named, ordered key/value partition inside a Store.
//
// Trees are created with Store.OpenTree and remain valid until the store is
// closed. Reads take a shared lock; mutations only happen through the
// store's transaction commit path.
type Tree struct {
	store *Store
	name  string
	id    int

	mu    sync.RWMutex
	items *btree.BTreeG[*entry]
	dirty atomic.Bool
}

func newTree(s *Store, name string, id int) *Tree {
	return &Tree{
		store: s,
		name:  name,
		id:    id,
		items: btree.NewG(btreeDegree, entryLess),
	}
}

// Name returns the tree's name.
func (t *Tree) Name() string { return t.name }

// Len returns the number of entries currently in the tree.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.items.Len()
}

// Get returns a copy of the value stored under key.
// It returns ErrNotFound if the key does not exist and *CorruptEntryError
// if the resident entry fails its checksum.
func (t *Tree) Get(key []byte) ([]byte, error) {
	if t.store.closed.Load() {
		return nil, ErrClosed
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.items.Get(&entry{key: key})
	if !ok {
		return nil, ErrNotFound
	}
	if !e.verify() {
		return nil, &CorruptEntryError{Tree: t.name, Key: bytes.Clone(key)}
	}
	return bytes.Clone(e.value), nil
}

// Scan returns a lazy, forward-only sequence over all entries in key order.
// The sequence iterates a point-in-time snapshot of the tree; writes
// committed after Scan is called are not observed. Entries that fail their
// checksum are yielded with a *CorruptEntryError instead of a value.
// A fresh call yields a fresh cursor.
func (t *Tree) Scan() iter.Seq2[Entry, error] {
	return t.scan(nil)
}

// ScanPrefix is Scan bounded to keys sharing prefix.
func (t *Tree) ScanPrefix(prefix []byte) iter.Seq2[Entry, error] {
	return t.scan(prefix)
}

func (t *Tree) scan(prefix []byte) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if t.store.closed.Load() {
			yield(Entry{}, ErrClosed)
			return
		}

		// Clone is O(1) copy-on-write; iteration then proceeds without
		// holding the tree lock, so consumers may write mid-scan.
		t.mu.Lock()
		snap := t.items.Clone()
		t.mu.Unlock()

		emit := func(e *entry) bool {
			if len(prefix) > 0 && !bytes.HasPrefix(e.key, prefix) {
				return false
			}
			if !e.verify() {
				return yield(Entry{Key: bytes.Clone(e.key)}, &CorruptEntryError{Tree: t.name, Key: bytes.Clone(e.key)})
			}
			return yield(Entry{Key: bytes.Clone(e.key), Value: bytes.Clone(e.value)}, nil)
		}

		if len(prefix) == 0 {
			snap.Ascend(emit)
		} else {
			snap.AscendGreaterOrEqual(&entry{key: prefix}, emit)
		}
	}
}

// Flush writes this tree's snapshot to disk. The store's write-ahead log is
// truncated once every tree in the store is clean.
func (t *Tree) Flush() error {
	s := t.store
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flushTreeLocked(t); err != nil {
		return err
	}
	return s.truncateWALLocked()
}

func (t *Tree) apply(kind wal.Kind, key, value []byte) {
	t.mu.Lock()
	t.applyLocked(kind, key, value)
	t.mu.Unlock()
}

// applyLocked mutates the tree. Callers must hold t.mu.
func (t *Tree) applyLocked(kind wal.Kind, key, value []byte) {
	switch kind {
	case wal.KindInsert:
		t.items.ReplaceOrInsert(newEntry(key, value))
	case wal.KindRemove:
		t.items.Delete(&entry{key: key})
	}
	t.dirty.Store(true)
}
