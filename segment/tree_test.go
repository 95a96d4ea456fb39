package segment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kvgo/testutil"
)

func openTestStore(t *testing.T, optFns ...func(o *Options)) *Store {
	t.Helper()
	fns := append([]func(o *Options){func(o *Options) {
		o.FlushInterval = time.Hour // keep the background flusher quiet
	}}, optFns...)
	s, err := Open(t.TempDir(), fns...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insert(t *testing.T, tr *Tree, kvs map[string]string) {
	t.Helper()
	err := Transact1(tr, func(tx *Tx) error {
		for k, v := range kvs {
			if err := tx.Insert([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestTree(t *testing.T) {
	t.Run("GetSetRemove", func(t *testing.T) {
		s := openTestStore(t)
		tr, err := s.OpenTree("col0")
		require.NoError(t, err)

		insert(t, tr, map[string]string{"k": "v"})

		v, err := tr.Get([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), v)
		assert.Equal(t, 1, tr.Len())

		_, err = tr.Get([]byte("missing"))
		assert.ErrorIs(t, err, ErrNotFound)

		err = Transact1(tr, func(tx *Tx) error {
			return tx.Remove([]byte("k"))
		})
		require.NoError(t, err)

		_, err = tr.Get([]byte("k"))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, tr.Len())
	})

	t.Run("EmptyKeyAndValue", func(t *testing.T) {
		s := openTestStore(t)
		tr, err := s.OpenTree("col0")
		require.NoError(t, err)

		insert(t, tr, map[string]string{"": ""})

		v, err := tr.Get(nil)
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("ScanOrderAndCompleteness", func(t *testing.T) {
		s := openTestStore(t)
		tr, err := s.OpenTree("col0")
		require.NoError(t, err)

		const n = 100
		rng := testutil.NewRNG(42)
		want := make(map[string][]byte, n)
		err = Transact1(tr, func(tx *Tx) error {
			for i := range n {
				k := testutil.SeqKey("k", i)
				v := rng.Bytes(16)
				want[string(k)] = v
				if err := tx.Insert(k, v); err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)

		var prev []byte
		count := 0
		for e, err := range tr.Scan() {
			require.NoError(t, err)
			if prev != nil {
				assert.Less(t, string(prev), string(e.Key))
			}
			assert.Equal(t, want[string(e.Key)], e.Value)
			prev = e.Key
			count++
		}
		assert.Equal(t, n, count)
	})

	t.Run("ScanPrefix", func(t *testing.T) {
		s := openTestStore(t)
		tr, err := s.OpenTree("col0")
		require.NoError(t, err)

		insert(t, tr, map[string]string{"ab": "1", "abc": "2", "b": "3"})

		var keys []string
		for e, err := range tr.ScanPrefix([]byte("ab")) {
			require.NoError(t, err)
			keys = append(keys, string(e.Key))
		}
		assert.Equal(t, []string{"ab", "abc"}, keys)
	})

	t.Run("ScanSnapshotIsolation", func(t *testing.T) {
		s := openTestStore(t)
		tr, err := s.OpenTree("col0")
		require.NoError(t, err)

		insert(t, tr, map[string]string{"a": "1", "b": "2"})

		count := 0
		for _, err := range tr.Scan() {
			require.NoError(t, err)
			// Writes after the cursor exists are not observed by it.
			insert(t, tr, map[string]string{"z": "9"})
			count++
		}
		assert.Equal(t, 2, count)
		assert.Equal(t, 3, tr.Len())
	})

	t.Run("CorruptEntry", func(t *testing.T) {
		s := openTestStore(t)
		tr, err := s.OpenTree("col0")
		require.NoError(t, err)

		insert(t, tr, map[string]string{"a": "1", "bad": "xx", "c": "3"})

		// Damage the resident entry behind the tree's back.
		tr.mu.Lock()
		e, ok := tr.items.Get(&entry{key: []byte("bad")})
		require.True(t, ok)
		e.value[0] ^= 0xff
		tr.mu.Unlock()

		_, err = tr.Get([]byte("bad"))
		var ce *CorruptEntryError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "col0", ce.Tree)

		var good []string
		var corrupt int
		for e, err := range tr.Scan() {
			if err != nil {
				require.ErrorAs(t, err, &ce)
				corrupt++
				continue
			}
			good = append(good, string(e.Key))
		}
		assert.Equal(t, []string{"a", "c"}, good)
		assert.Equal(t, 1, corrupt)
	})

	t.Run("ClosedStore", func(t *testing.T) {
		s := openTestStore(t)
		tr, err := s.OpenTree("col0")
		require.NoError(t, err)
		require.NoError(t, s.Close())

		_, err = tr.Get([]byte("k"))
		assert.ErrorIs(t, err, ErrClosed)
		assert.ErrorIs(t, tr.Flush(), ErrClosed)

		for _, err := range tr.Scan() {
			assert.ErrorIs(t, err, ErrClosed)
		}
	})
}
