// Package wal provides the write-ahead log backing the segment store.
//
// Every committed transaction becomes exactly one CRC-framed record holding
// all of its operations, so recovery replays whole batches or nothing.
// A torn tail (partial record from a crash or a failed append) is truncated
// away when the log is opened.
package wal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Kind identifies a logged operation.
type Kind uint8

const (
	// KindInsert sets a key to a value.
	KindInsert Kind = iota + 1
	// KindRemove deletes a key.
	KindRemove
)

// Op is a single logged operation, addressed to a tree by its index.
type Op struct {
	Tree  uint32
	Kind  Kind
	Key   []byte
	Value []byte
}

// Record is one committed transaction: an ordered batch of operations.
type Record struct {
	Ops []Op
}

// ErrClosed is returned when the log is used after Close.
var ErrClosed = errors.New("wal: closed")

// WAL is an append-only log of transaction records.
type WAL struct {
	mu     sync.Mutex
	f      *os.File
	size   int64
	path   string
	closed bool
}

// Open opens (or creates) the log at path, replays every intact record
// through fn in append order, and truncates any torn tail so subsequent
// appends start at a record boundary.
func Open(path string, fn func(op *Op) error) (*WAL, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("wal: open %s: %w", path, err)
	}

	valid, err := replay(f, fn)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	// Drop anything past the last intact record.
	if err := f.Truncate(valid); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("wal: truncate torn tail: %w", err)
	}
	if _, err := f.Seek(valid, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("wal: seek: %w", err)
	}

	return &WAL{f: f, size: valid, path: path}, nil
}

// Append writes one record. On any write failure the file is restored to
// its previous length so the log never accumulates a torn middle.
func (w *WAL) Append(rec *Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	buf := encodeRecord(rec)
	n, err := w.f.Write(buf)
	if err != nil {
		// Best effort: rewind to the last record boundary.
		_ = w.f.Truncate(w.size)
		_, _ = w.f.Seek(w.size, io.SeekStart)
		return fmt.Errorf("wal: append: %w", err)
	}
	w.size += int64(n)
	return nil
}

// Sync flushes the log to stable storage.
func (w *WAL) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.f.Sync()
}

// Size returns the current log length in bytes.
func (w *WAL) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Reset discards all records. Called after every tree has been
// checkpointed to a snapshot.
func (w *WAL) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if err := w.f.Truncate(0); err != nil {
		return fmt.Errorf("wal: reset: %w", err)
	}
	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("wal: reset seek: %w", err)
	}
	w.size = 0
	return w.f.Sync()
}

// Close syncs and closes the underlying file.
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.f.Sync(); err != nil {
		_ = w.f.Close()
		return err
	}
	return w.f.Close()
}
