package kvgo

// Close flushes all segments best-effort and releases the underlying
// store. It is idempotent; every call returns the result of the first.
//
// Teardown never leaves the database in a partially usable state: after
// Close, reads fail with ErrClosed, writes fail with ErrTransactionFailed
// wrapping ErrClosed, and scans yield ErrClosed at cursor establishment.
// The returned flush error is informational and safe to ignore.
func (db *DB) Close() error {
	if db == nil {
		return nil
	}
	db.closeOnce.Do(func() {
		db.closeErr = translateError(db.store.Close())
		db.logger.LogClose(db.closeErr)
	})
	return db.closeErr
}
