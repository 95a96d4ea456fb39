package segment

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a key does not exist in a tree.
	ErrNotFound = errors.New("segment: not found")

	// ErrClosed is returned when the store is used after Close.
	ErrClosed = errors.New("segment: store closed")

	// ErrTxDone is returned when a transaction handle is used after its
	// enclosing Transact call has returned.
	ErrTxDone = errors.New("segment: transaction already finished")

	// ErrStoreMismatch is returned when a transaction spans trees from
	// different stores.
	ErrStoreMismatch = errors.New("segment: trees belong to different stores")

	// ErrDuplicateTree is returned when the same tree is passed more than
	// once to a Transact call.
	ErrDuplicateTree = errors.New("segment: duplicate tree in transaction")
)

// CorruptEntryError reports an entry whose checksum no longer matches its
// contents. Scans may skip such entries; point lookups surface them.
type CorruptEntryError struct {
	Tree string
	Key  []byte
}

func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("segment: corrupt entry in tree %q (key %x)", e.Tree, e.Key)
}
