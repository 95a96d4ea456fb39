package segment

import (
	"time"

	"github.com/hupe1980/kvgo/codec"
)

// Options configures a Store.
type Options struct {
	// CacheBytes is the memory budget for buffered state. When the
	// write-ahead log grows past CacheBytes/2 a background checkpoint is
	// triggered. Default: 128 MiB.
	CacheBytes int64

	// FlushInterval is the cadence of the background flusher. Default: 2s.
	FlushInterval time.Duration

	// SyncWrites fsyncs the write-ahead log on every commit. Slower, but a
	// committed transaction survives power loss. A sync failure is
	// returned after the batch has already been applied.
	SyncWrites bool

	// Codec compresses tree snapshots. Snapshot files record the codec
	// name, so reopening with a different configured codec still decodes
	// existing files. Default: codec.Default.
	Codec codec.Codec

	// OnBackgroundFlushError receives errors from the background flusher.
	// If nil, such errors are dropped.
	OnBackgroundFlushError func(error)
}

// DefaultOptions are the options used when none are given.
var DefaultOptions = Options{
	CacheBytes:    128 << 20,
	FlushInterval: 2 * time.Second,
}
