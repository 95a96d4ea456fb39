// Package kvgo provides an embedded, multi-column key/value database for Go.
//
// Kvgo places a logical-column facade on top of an ordered segment store
// with production-ready features including:
//
//   - An arbitrary number of named logical columns plus a reserved default
//     column, multiplexed onto physical segments
//   - Atomic multi-column batches (all operations visible together or not
//     at all)
//   - Ordered iteration and prefix scans as lazy iter.Seq2 sequences
//   - Durability control: explicit Flush, periodic background flush, and
//     an optional fsync-per-commit mode
//   - Crash recovery via a write-ahead log with CRC-framed records
//   - Compressed, self-describing snapshot files (s2, zstd, lz4, raw)
//
// # Quick Start
//
// Open a database with two logical columns and write atomically across
// them:
//
//	db, err := kvgo.Open("./data",
//	    kvgo.WithColumns(2),
//	    kvgo.WithMemoryBudget(64<<20),
//	)
//	if err != nil {
//	    panic(err)
//	}
//	defer db.Close()
//
//	b := new(kvgo.Batch)
//	b.Put(kvgo.DefaultColumn, []byte("height"), []byte("42"))
//	b.Put(0, []byte("block:42"), payload)
//	b.Delete(1, []byte("pending:42"))
//	if err := db.Write(b); err != nil {
//	    panic(err)
//	}
//
// Read back and scan:
//
//	v, err := db.Get(0, []byte("block:42"))
//
//	for e, err := range db.ScanPrefix(0, []byte("block:")) {
//	    if err != nil {
//	        break // cursor could not be established
//	    }
//	    process(e.Key, e.Value)
//	}
//
// # Column addressing
//
// Logical column c maps to physical segment c+1; DefaultColumn maps to
// segment 0. The column count is fixed at Open time; changing it requires
// reopening the store. At most MaxColumns logical columns are supported,
// bounded by the largest fixed-arity transaction the segment engine
// exposes. Passing an out-of-range column to any operation is a caller
// contract violation and panics.
//
// # Consistency
//
// The atomicity of Write is exactly the segment engine's transaction
// isolation: within one batch no reader observes a subset of its
// operations. The facade adds no locking of its own. Cross-column scan
// consistency is not guaranteed.
package kvgo
