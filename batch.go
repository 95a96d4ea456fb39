package kvgo

import "bytes"

// Column identifies a logical column. Logical columns are numbered from 0;
// DefaultColumn addresses the reserved default namespace.
type Column int32

// DefaultColumn is the reserved default column, used by operations that
// carry no explicit column.
const DefaultColumn Column = -1

// index maps a logical column to its physical segment index: the default
// column is segment 0, logical column c is segment c+1. Resolution never
// fails; using an out-of-range column is a caller contract violation that
// panics when the index hits the segment list.
func (c Column) index() int {
	if c == DefaultColumn {
		return 0
	}
	return int(c) + 1
}

type opKind uint8

const (
	opInsert opKind = iota + 1
	opDelete
)

type batchOp struct {
	kind  opKind
	col   Column
	key   []byte
	value []byte
}

// Batch is an ordered list of insert and delete operations committed
// atomically by DB.Write. Operation order has no observable effect on the
// committed result; all operations become visible together.
//
// The zero value is an empty batch ready for use. A Batch is not safe for
// concurrent mutation, but may be reused after Write returns.
type Batch struct {
	ops []batchOp
}

// Put stages setting key to value in the given column.
// Key and value are copied.
func (b *Batch) Put(col Column, key, value []byte) {
	b.ops = append(b.ops, batchOp{
		kind:  opInsert,
		col:   col,
		key:   bytes.Clone(key),
		value: bytes.Clone(value),
	})
}

// Delete stages removing key from the given column. The key is copied.
func (b *Batch) Delete(col Column, key []byte) {
	b.ops = append(b.ops, batchOp{
		kind: opDelete,
		col:  col,
		key:  bytes.Clone(key),
	})
}

// Len returns the number of staged operations.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.ops)
}

// Reset empties the batch, retaining its capacity.
func (b *Batch) Reset() {
	b.ops = b.ops[:0]
}
