package kvgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kvgo/segment"
)

var (
	// ErrNotFound is returned when a key is not found.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned when the database is used after Close.
	ErrClosed = errors.New("database closed")

	// ErrTransactionFailed is returned when an atomic batch was rejected
	// or rolled back. No operation of the batch is visible.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrReadFailed is returned when a point lookup fails for a reason
	// other than absence, e.g. the engine reports a damaged entry.
	ErrReadFailed = errors.New("read failed")

	// ErrRestoreUnsupported is returned by Restore. Hot-swapping the
	// backing store is out of scope for this layer.
	ErrRestoreUnsupported = fmt.Errorf("restore: %w", errors.ErrUnsupported)
)

// UnsupportedColumnCountError indicates a column count with no matching
// fixed-arity transaction path in the segment engine.
type UnsupportedColumnCountError struct {
	Columns int
	Max     int
}

func (e *UnsupportedColumnCountError) Error() string {
	return fmt.Sprintf("unsupported column count %d (at most %d logical columns)", e.Columns, e.Max)
}

// OpenError indicates that the store or one of its segments could not be
// opened. The engine error can be accessed via errors.Unwrap.
type OpenError struct {
	Path  string
	cause error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.cause)
}

func (e *OpenError) Unwrap() error { return e.cause }

// FlushError indicates a failed durability flush. Segments before the
// named one were flushed; the state of later segments is undefined.
type FlushError struct {
	Segment string
	cause   error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("flush failed: segment %s: %v", e.Segment, e.cause)
}

func (e *FlushError) Unwrap() error { return e.cause }

// translateError unifies segment engine errors at the facade boundary.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, segment.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, segment.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	var ce *segment.CorruptEntryError
	if errors.As(err, &ce) {
		return fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return err
}
