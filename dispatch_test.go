package kvgo

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every supported column count has its own fixed-arity apply path; walk
// them all with a batch that touches every segment.
func TestDispatchAllArities(t *testing.T) {
	for columns := 0; columns <= MaxColumns; columns++ {
		t.Run(fmt.Sprintf("columns=%d", columns), func(t *testing.T) {
			db := openTestDB(t, WithColumns(columns))

			b := new(Batch)
			b.Put(DefaultColumn, []byte("key"), []byte("default"))
			for c := range columns {
				b.Put(Column(c), []byte("key"), fmt.Appendf(nil, "col%d", c))
			}
			require.NoError(t, db.Write(b))

			v, err := db.Get(DefaultColumn, []byte("key"))
			require.NoError(t, err)
			assert.Equal(t, []byte("default"), v)
			for c := range columns {
				v, err := db.Get(Column(c), []byte("key"))
				require.NoError(t, err)
				assert.Equal(t, fmt.Appendf(nil, "col%d", c), v)
			}
		})
	}
}

func TestColumnIndex(t *testing.T) {
	assert.Equal(t, 0, DefaultColumn.index())
	assert.Equal(t, 1, Column(0).index())
	assert.Equal(t, 9, Column(8).index())
}

func TestOutOfRangeColumnPanics(t *testing.T) {
	db := openTestDB(t) // only the default column exists

	assert.Panics(t, func() {
		_, _ = db.Get(5, []byte("k"))
	})

	b := new(Batch)
	b.Put(5, []byte("k"), []byte("v"))
	assert.Panics(t, func() {
		_ = db.Write(b)
	})
}

func TestConcurrentWriters(t *testing.T) {
	db := openTestDB(t, WithColumns(2))

	const writers = 8
	const perWriter = 50

	done := make(chan error, writers)
	for w := range writers {
		go func() {
			for i := range perWriter {
				b := new(Batch)
				key := fmt.Appendf(nil, "w%d-%d", w, i)
				b.Put(0, key, []byte("a"))
				b.Put(1, key, []byte("b"))
				if err := db.Write(b); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for range writers {
		require.NoError(t, <-done)
	}

	// Each batch spanned both columns; both sides must be present.
	for w := range writers {
		for i := range perWriter {
			key := fmt.Appendf(nil, "w%d-%d", w, i)
			_, err := db.Get(0, key)
			require.NoError(t, err)
			_, err = db.Get(1, key)
			require.NoError(t, err)
		}
	}
}
