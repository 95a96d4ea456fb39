package segment

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kvgo/codec"
)

func TestStore(t *testing.T) {
	t.Run("OpenTree", func(t *testing.T) {
		s := openTestStore(t)

		t1, err := s.OpenTree("col0")
		require.NoError(t, err)

		// Same name yields the same handle.
		t1b, err := s.OpenTree("col0")
		require.NoError(t, err)
		assert.Same(t, t1, t1b)

		t2, err := s.OpenTree("col1")
		require.NoError(t, err)
		assert.Equal(t, 0, t1.id)
		assert.Equal(t, 1, t2.id)
	})

	t.Run("InvalidTreeName", func(t *testing.T) {
		s := openTestStore(t)

		_, err := s.OpenTree("")
		assert.Error(t, err)
		_, err = s.OpenTree("a/b")
		assert.Error(t, err)
	})

	t.Run("PersistsAcrossReopen", func(t *testing.T) {
		dir := t.TempDir()

		s1, err := Open(dir, func(o *Options) { o.FlushInterval = time.Hour })
		require.NoError(t, err)
		t1, err := s1.OpenTree("col0")
		require.NoError(t, err)
		t2, err := s1.OpenTree("col1")
		require.NoError(t, err)

		insert(t, t1, map[string]string{"a": "1"})
		insert(t, t2, map[string]string{"b": "2"})
		require.NoError(t, s1.Close()) // flushes

		s2, err := Open(dir, func(o *Options) { o.FlushInterval = time.Hour })
		require.NoError(t, err)
		defer s2.Close()

		// Creation order is stable: ids survive reopen.
		t1b, err := s2.OpenTree("col0")
		require.NoError(t, err)
		t2b, err := s2.OpenTree("col1")
		require.NoError(t, err)
		assert.Equal(t, 0, t1b.id)
		assert.Equal(t, 1, t2b.id)

		v, err := t1b.Get([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), v)
		v, err = t2b.Get([]byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), v)
	})

	t.Run("DeletionPersists", func(t *testing.T) {
		dir := t.TempDir()

		s1, err := Open(dir, func(o *Options) { o.FlushInterval = time.Hour })
		require.NoError(t, err)
		t1, err := s1.OpenTree("col0")
		require.NoError(t, err)

		insert(t, t1, map[string]string{"a": "1"})
		require.NoError(t, s1.Flush())
		require.NoError(t, Transact1(t1, func(tx *Tx) error {
			return tx.Remove([]byte("a"))
		}))
		require.NoError(t, s1.Close())

		s2, err := Open(dir, func(o *Options) { o.FlushInterval = time.Hour })
		require.NoError(t, err)
		defer s2.Close()
		t1b, err := s2.OpenTree("col0")
		require.NoError(t, err)

		_, err = t1b.Get([]byte("a"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("RecoversFromWALWithoutFlush", func(t *testing.T) {
		dir := t.TempDir()

		// No Close, no Flush: only the WAL holds the commit.
		s1, err := Open(dir, func(o *Options) { o.FlushInterval = time.Hour })
		require.NoError(t, err)
		t1, err := s1.OpenTree("col0")
		require.NoError(t, err)
		insert(t, t1, map[string]string{"a": "1"})

		s2, err := Open(dir, func(o *Options) { o.FlushInterval = time.Hour })
		require.NoError(t, err)
		defer s2.Close()
		t1b, err := s2.OpenTree("col0")
		require.NoError(t, err)

		v, err := t1b.Get([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), v)

		_ = s1 // abandoned, simulating a crash
	})

	t.Run("SnapshotCodecIsSelfDescribing", func(t *testing.T) {
		dir := t.TempDir()

		s1, err := Open(dir, func(o *Options) {
			o.FlushInterval = time.Hour
			o.Codec = codec.Zstd{}
		})
		require.NoError(t, err)
		t1, err := s1.OpenTree("col0")
		require.NoError(t, err)
		insert(t, t1, map[string]string{"a": "1"})
		require.NoError(t, s1.Close())

		// Reopen with the default codec; the zstd snapshot still decodes.
		s2, err := Open(dir, func(o *Options) { o.FlushInterval = time.Hour })
		require.NoError(t, err)
		defer s2.Close()
		t1b, err := s2.OpenTree("col0")
		require.NoError(t, err)

		v, err := t1b.Get([]byte("a"))
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), v)
	})

	t.Run("BackgroundFlush", func(t *testing.T) {
		dir := t.TempDir()

		s, err := Open(dir, func(o *Options) { o.FlushInterval = 10 * time.Millisecond })
		require.NoError(t, err)
		defer s.Close()
		t1, err := s.OpenTree("col0")
		require.NoError(t, err)
		insert(t, t1, map[string]string{"a": "1"})

		require.Eventually(t, func() bool {
			_, err := os.Stat(filepath.Join(dir, "col0.seg"))
			return err == nil
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("BudgetTriggersCheckpoint", func(t *testing.T) {
		dir := t.TempDir()

		// Tiny budget: the first commit exceeds CacheBytes/2 and signals
		// an immediate checkpoint despite the long interval.
		s, err := Open(dir, func(o *Options) {
			o.FlushInterval = time.Hour
			o.CacheBytes = 64
		})
		require.NoError(t, err)
		defer s.Close()
		t1, err := s.OpenTree("col0")
		require.NoError(t, err)
		insert(t, t1, map[string]string{"somekey": "somevalue"})

		require.Eventually(t, func() bool {
			_, err := os.Stat(filepath.Join(dir, "col0.seg"))
			return err == nil
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("WALTruncatedAfterFullFlush", func(t *testing.T) {
		s := openTestStore(t)
		t1, err := s.OpenTree("col0")
		require.NoError(t, err)
		t2, err := s.OpenTree("col1")
		require.NoError(t, err)

		insert(t, t1, map[string]string{"a": "1"})
		insert(t, t2, map[string]string{"b": "2"})
		require.Positive(t, s.wal.Size())

		// Per-tree flush leaves the log in place while col1 is dirty.
		require.NoError(t, t1.Flush())
		require.Positive(t, s.wal.Size())

		require.NoError(t, t2.Flush())
		assert.Zero(t, s.wal.Size())
	})

	t.Run("CloseIdempotent", func(t *testing.T) {
		s := openTestStore(t)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		_, err := s.OpenTree("col0")
		assert.ErrorIs(t, err, ErrClosed)
	})
}
