package kvgo

import (
	"log/slog"
	"time"

	"github.com/hupe1980/kvgo/codec"
)

// DefaultMemoryBudget is the engine memory budget used when none is
// configured.
const DefaultMemoryBudget = 128 << 20 // 128 MiB

type options struct {
	columns              int
	memoryBudget         int64
	codec                codec.Codec
	flushInterval        time.Duration
	syncWrites           bool
	logger               *Logger
	metricsCollector     MetricsCollector
	bufferedWriteHandler func(error)
}

// Option configures Open behavior.
type Option func(*options)

// WithColumns configures the number of additional logical columns beyond
// the reserved default column. Default: 0.
//
// The column count is fixed for the lifetime of the database; changing it
// requires reopening the store. At most MaxColumns logical columns are
// supported; Open fails with *UnsupportedColumnCountError beyond that.
func WithColumns(n int) Option {
	return func(o *options) {
		o.columns = n
	}
}

// WithMemoryBudget configures the engine memory budget in bytes. The
// budget controls engine-internal cache sizing and flush cadence and is
// delegated entirely to the segment store. Default: DefaultMemoryBudget.
func WithMemoryBudget(bytes int64) Option {
	return func(o *options) {
		o.memoryBudget = bytes
	}
}

// WithCodec configures the codec used to compress segment snapshots.
//
// If nil is passed, codec.Default is used. Snapshot files are
// self-describing, so existing files written with another codec still
// decode.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithFlushInterval configures the cadence of the engine's background
// flusher. Default: 2s.
func WithFlushInterval(d time.Duration) Option {
	return func(o *options) {
		o.flushInterval = d
	}
}

// WithSyncWrites makes every committed batch fsync the write-ahead log
// before Write returns. Slower, but committed data survives power loss.
func WithSyncWrites(sync bool) Option {
	return func(o *options) {
		o.syncWrites = sync
	}
}

// WithBufferedWriteHandler configures a callback invoked with the error of
// a failed WriteBuffered batch. By default such failures are only logged;
// callers that need a signal without the strict Write contract can observe
// them here.
func WithBufferedWriteHandler(fn func(error)) Option {
	return func(o *options) {
		o.bufferedWriteHandler = fn
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kvgo.BasicMetricsCollector{}
//	db, _ := kvgo.Open(path, kvgo.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		memoryBudget:     DefaultMemoryBudget,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
