package kvgo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle(t *testing.T) {
	t.Run("PersistsAcrossReopen", func(t *testing.T) {
		dir := t.TempDir()

		db, err := Open(dir, WithColumns(1), WithFlushInterval(time.Hour))
		require.NoError(t, err)
		put(t, db, DefaultColumn, "a", "1")
		put(t, db, 0, "b", "2")
		require.NoError(t, db.Close())

		db2, err := Open(dir, WithColumns(1), WithFlushInterval(time.Hour))
		require.NoError(t, err)
		defer db2.Close()

		v, err := db2.Get(DefaultColumn, []byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), v)
		v, err = db2.Get(0, []byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), v)
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, db.Close())
		require.NoError(t, db.Close())
	})

	t.Run("CloseOnNil", func(t *testing.T) {
		var db *DB
		assert.NoError(t, db.Close())
	})

	t.Run("OperationsAfterClose", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, db.Close())

		_, err := db.Get(DefaultColumn, []byte("k"))
		assert.ErrorIs(t, err, ErrClosed)

		b := new(Batch)
		b.Put(DefaultColumn, []byte("k"), []byte("v"))
		err = db.Write(b)
		assert.ErrorIs(t, err, ErrTransactionFailed)

		assert.ErrorIs(t, db.Flush(), ErrClosed)
	})

	t.Run("Accessors", func(t *testing.T) {
		dir := t.TempDir()
		db, err := Open(dir, WithColumns(3), WithFlushInterval(time.Hour))
		require.NoError(t, err)
		defer db.Close()

		assert.Equal(t, dir, db.Path())
		assert.Equal(t, 3, db.Columns())
	})

	t.Run("SyncWrites", func(t *testing.T) {
		dir := t.TempDir()
		db, err := Open(dir, WithSyncWrites(true), WithFlushInterval(time.Hour))
		require.NoError(t, err)
		defer db.Close()

		put(t, db, DefaultColumn, "k", "v")
		v, err := db.Get(DefaultColumn, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), v)
	})
}
