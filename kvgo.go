package kvgo

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/kvgo/segment"
)

// MaxColumns is the largest supported number of logical columns, bounded
// by the largest fixed-arity transaction the segment engine exposes (one
// segment is reserved for the default column).
const MaxColumns = segment.MaxTransactArity - 1

// DB is a multi-column key/value database backed by a segment store.
//
// A DB is safe for concurrent use: multiple goroutines may issue reads,
// writes and scans simultaneously. Isolation between concurrent batches is
// exactly the segment engine's transaction isolation; the facade adds no
// locking of its own.
type DB struct {
	store   *segment.Store
	trees   []*segment.Tree
	path    string
	columns int

	logger           *Logger
	metrics          MetricsCollector
	onBufferedFailed func(error)

	closeOnce sync.Once
	closeErr  error
}

// Open opens or creates a database at path.
//
// It opens columns+1 segments in index order: the reserved default column
// first, then one per logical column, named "col0", "col1", and so on.
// Column counts beyond MaxColumns fail with *UnsupportedColumnCountError.
func Open(path string, optFns ...Option) (*DB, error) {
	opts := applyOptions(optFns)

	if opts.columns < 0 || opts.columns > MaxColumns {
		return nil, &UnsupportedColumnCountError{Columns: opts.columns, Max: MaxColumns}
	}

	db := &DB{
		path:             path,
		columns:          opts.columns,
		logger:           opts.logger,
		metrics:          opts.metricsCollector,
		onBufferedFailed: opts.bufferedWriteHandler,
	}

	store, err := segment.Open(path, func(o *segment.Options) {
		o.CacheBytes = opts.memoryBudget
		o.FlushInterval = opts.flushInterval
		o.SyncWrites = opts.syncWrites
		o.Codec = opts.codec
		o.OnBackgroundFlushError = func(err error) {
			db.logger.LogBackgroundFlush(err)
		}
	})
	if err != nil {
		return nil, &OpenError{Path: path, cause: err}
	}

	trees := make([]*segment.Tree, opts.columns+1)
	for i := range trees {
		t, err := store.OpenTree(fmt.Sprintf("col%d", i))
		if err != nil {
			_ = store.Close()
			return nil, &OpenError{Path: path, cause: err}
		}
		trees[i] = t
	}
	db.store = store
	db.trees = trees

	db.logger.LogOpen(path, opts.columns)
	return db, nil
}

// Path returns the storage location the database was opened at.
func (db *DB) Path() string { return db.path }

// Columns returns the number of logical columns declared at Open time
// (excluding the reserved default column).
func (db *DB) Columns() int { return db.columns }

// tree resolves a logical column to its segment. Out-of-range columns
// panic, by contract.
func (db *DB) tree(col Column) *segment.Tree {
	return db.trees[col.index()]
}

// Get returns the value stored under key in the given column, or
// ErrNotFound. Engine read failures are wrapped into ErrReadFailed.
func (db *DB) Get(col Column, key []byte) ([]byte, error) {
	start := time.Now()
	v, err := db.tree(col).Get(key)
	err = translateError(err)
	db.metrics.RecordGet(time.Since(start), err)
	db.logger.LogGet(col, err)
	return v, err
}

// Flush forces a durability flush on every segment in registry order. It
// fails on the first segment that fails, leaving the flush state of later
// segments undefined. Flush is a best-effort durability hint, not a
// transactional property.
func (db *DB) Flush() error {
	start := time.Now()
	var err error
	for _, t := range db.trees {
		if ferr := t.Flush(); ferr != nil {
			err = &FlushError{Segment: t.Name(), cause: translateError(ferr)}
			break
		}
	}
	db.metrics.RecordFlush(time.Since(start), err)
	db.logger.LogFlush(err)
	return err
}

// Restore is declared for interface parity but intentionally not
// implemented: hot-swapping the backing store is out of scope for this
// layer. It always returns ErrRestoreUnsupported.
func (db *DB) Restore(newPath string) error {
	return ErrRestoreUnsupported
}
