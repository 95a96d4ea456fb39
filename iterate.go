package kvgo

import (
	"errors"
	"iter"
	"time"

	"github.com/hupe1980/kvgo/segment"
)

// Entry is a key/value pair yielded by Iterate and ScanPrefix. Key and
// Value are copies owned by the caller.
type Entry struct {
	Key   []byte
	Value []byte
}

// Iterate returns a lazy, forward-only sequence over all entries of the
// resolved column in the engine's key order. The sequence is finite,
// single-pass and not restartable; a fresh call yields a fresh cursor.
//
// Entries the engine reports as corrupt are skipped rather than surfaced:
// delivering the available data is preferred over failing the whole scan.
// A failure to establish the cursor (e.g. the database is closed) is
// yielded once as a non-nil error before the sequence ends.
//
// The sequence borrows from the database and must not be consumed after
// Close.
func (db *DB) Iterate(col Column) iter.Seq2[Entry, error] {
	return db.adapt(col, db.tree(col).Scan())
}

// ScanPrefix is Iterate bounded to keys sharing prefix as an ordered byte
// prefix.
func (db *DB) ScanPrefix(col Column, prefix []byte) iter.Seq2[Entry, error] {
	return db.adapt(col, db.tree(col).ScanPrefix(prefix))
}

// GetByPrefix returns the value of the first entry whose key shares
// prefix, or ErrNotFound if no key matches.
//
// This is an O(scan-to-first-match) operation, not a point lookup. A probe
// using "next key greater than prefix" would only be correct when every
// key in the column is strictly longer than the prefix, so it is not used.
func (db *DB) GetByPrefix(col Column, prefix []byte) ([]byte, error) {
	for e, err := range db.ScanPrefix(col, prefix) {
		if err != nil {
			return nil, err
		}
		return e.Value, nil
	}
	return nil, ErrNotFound
}

// adapt wraps an engine cursor: per-entry corruption is skipped,
// establishment failures are surfaced, and scan metrics are recorded when
// the sequence ends.
func (db *DB) adapt(col Column, scan iter.Seq2[segment.Entry, error]) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		start := time.Now()
		var count int
		for e, err := range scan {
			if err != nil {
				var ce *segment.CorruptEntryError
				if errors.As(err, &ce) {
					db.logger.LogSkippedEntry(col, ce)
					continue
				}
				db.metrics.RecordScan(count, time.Since(start))
				yield(Entry{}, translateError(err))
				return
			}
			count++
			if !yield(Entry{Key: e.Key, Value: e.Value}, nil) {
				db.metrics.RecordScan(count, time.Since(start))
				return
			}
		}
		db.metrics.RecordScan(count, time.Since(start))
	}
}
