package segment

import (
	"bytes"

	"github.com/hupe1980/kvgo/internal/wal"
)

// MaxTransactArity is the largest segment group an atomic transaction can
// span. The transactional primitive is only exposed at fixed arities
// (Transact1 .. Transact16); callers with more trees must partition their
// data differently.
const MaxTransactArity = 16

// Tx is a staging handle for one tree inside an atomic transaction.
// Operations staged through a Tx become visible all at once when the
// enclosing Transact call commits, or not at all.
//
// A Tx is only valid inside the function it was passed to.
type Tx struct {
	tree *Tree
	ops  []wal.Op
	done bool
}

// Insert stages setting key to value. Key and value are copied.
func (tx *Tx) Insert(key, value []byte) error {
	if tx.done {
		return ErrTxDone
	}
	tx.ops = append(tx.ops, wal.Op{
		Tree:  uint32(tx.tree.id),
		Kind:  wal.KindInsert,
		Key:   bytes.Clone(key),
		Value: bytes.Clone(value),
	})
	return nil
}

// Remove stages deleting key. The key is copied.
func (tx *Tx) Remove(key []byte) error {
	if tx.done {
		return ErrTxDone
	}
	tx.ops = append(tx.ops, wal.Op{
		Tree: uint32(tx.tree.id),
		Kind: wal.KindRemove,
		Key:  bytes.Clone(key),
	})
	return nil
}

// transact is the shared body behind the fixed-arity entry points. If fn
// returns an error nothing is applied; otherwise the staged operations are
// committed as one atomic unit.
func transact(trees []*Tree, fn func(txs []*Tx) error) error {
	s := trees[0].store
	seen := make(map[int]struct{}, len(trees))
	for _, t := range trees {
		if t.store != s {
			return ErrStoreMismatch
		}
		if _, ok := seen[t.id]; ok {
			return ErrDuplicateTree
		}
		seen[t.id] = struct{}{}
	}

	txs := make([]*Tx, len(trees))
	for i, t := range trees {
		txs[i] = &Tx{tree: t}
	}
	err := fn(txs)
	for _, tx := range txs {
		tx.done = true
	}
	if err != nil {
		return err
	}
	return s.commit(txs)
}

// Transact1 runs fn against one tree and commits its staged operations
// atomically.
func Transact1(t1 *Tree, fn func(tx1 *Tx) error) error {
	return transact([]*Tree{t1}, func(txs []*Tx) error {
		return fn(txs[0])
	})
}

// Transact2 runs fn against two trees and commits atomically across both.
func Transact2(t1, t2 *Tree, fn func(tx1, tx2 *Tx) error) error {
	return transact([]*Tree{t1, t2}, func(txs []*Tx) error {
		return fn(txs[0], txs[1])
	})
}

// Transact3 runs fn against three trees and commits atomically across all.
func Transact3(t1, t2, t3 *Tree, fn func(tx1, tx2, tx3 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2])
	})
}

// Transact4 runs fn against four trees and commits atomically across all.
func Transact4(t1, t2, t3, t4 *Tree, fn func(tx1, tx2, tx3, tx4 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3])
	})
}

// Transact5 runs fn against five trees and commits atomically across all.
func Transact5(t1, t2, t3, t4, t5 *Tree, fn func(tx1, tx2, tx3, tx4, tx5 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4])
	})
}

// Transact6 runs fn against six trees and commits atomically across all.
func Transact6(t1, t2, t3, t4, t5, t6 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5])
	})
}

// Transact7 runs fn against seven trees and commits atomically across all.
func Transact7(t1, t2, t3, t4, t5, t6, t7 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6])
	})
}

// Transact8 runs fn against eight trees and commits atomically across all.
func Transact8(t1, t2, t3, t4, t5, t6, t7, t8 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7, t8}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6], txs[7])
	})
}

// Transact9 runs fn against nine trees and commits atomically across all.
func Transact9(t1, t2, t3, t4, t5, t6, t7, t8, t9 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7, t8, t9}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6], txs[7], txs[8])
	})
}

// Transact10 runs fn against ten trees and commits atomically across all.
func Transact10(t1, t2, t3, t4, t5, t6, t7, t8, t9, t10 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7, t8, t9, t10}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6], txs[7], txs[8], txs[9])
	})
}

// Transact11 runs fn against eleven trees and commits atomically across all.
func Transact11(t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6], txs[7], txs[8], txs[9], txs[10])
	})
}

// Transact12 runs fn against twelve trees and commits atomically across all.
func Transact12(t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6], txs[7], txs[8], txs[9], txs[10], txs[11])
	})
}

// Transact13 runs fn against thirteen trees and commits atomically across all.
func Transact13(t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12, t13 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12, t13}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6], txs[7], txs[8], txs[9], txs[10], txs[11], txs[12])
	})
}

// Transact14 runs fn against fourteen trees and commits atomically across all.
func Transact14(t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12, t13, t14 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13, tx14 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12, t13, t14}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6], txs[7], txs[8], txs[9], txs[10], txs[11], txs[12], txs[13])
	})
}

// Transact15 runs fn against fifteen trees and commits atomically across all.
func Transact15(t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12, t13, t14, t15 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13, tx14, tx15 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12, t13, t14, t15}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6], txs[7], txs[8], txs[9], txs[10], txs[11], txs[12], txs[13], txs[14])
	})
}

// Transact16 runs fn against sixteen trees and commits atomically across all.
func Transact16(t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12, t13, t14, t15, t16 *Tree, fn func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13, tx14, tx15, tx16 *Tx) error) error {
	return transact([]*Tree{t1, t2, t3, t4, t5, t6, t7, t8, t9, t10, t11, t12, t13, t14, t15, t16}, func(txs []*Tx) error {
		return fn(txs[0], txs[1], txs[2], txs[3], txs[4], txs[5], txs[6], txs[7], txs[8], txs[9], txs[10], txs[11], txs[12], txs[13], txs[14], txs[15])
	})
}
