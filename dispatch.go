package kvgo

import (
	"fmt"
	"time"

	"github.com/hupe1980/kvgo/segment"
)

// Write atomically applies every operation in the batch to its resolved
// segment. Either all operations become visible together, or none do and
// an error wrapping ErrTransactionFailed is returned.
//
// The segment engine only exposes atomic transactions at fixed arities, so
// Write selects the apply path matching the total segment count. A count
// with no matching arity returns *UnsupportedColumnCountError; Open
// enforces the same bound, so this is unreachable for a DB it produced.
func (db *DB) Write(b *Batch) error {
	start := time.Now()
	err := db.dispatch(b)
	db.metrics.RecordWrite(b.Len(), time.Since(start), err)
	db.logger.LogWrite(b.Len(), err)
	return err
}

// WriteBuffered applies the batch with the same semantics as Write but
// deliberately swallows failures: they are logged (and handed to the
// WithBufferedWriteHandler callback, if configured) instead of returned.
// Callers receive no success signal and must not rely on WriteBuffered for
// consistency-sensitive writes; use Write for guarantees.
func (db *DB) WriteBuffered(b *Batch) {
	if err := db.dispatch(b); err != nil {
		db.logger.LogBufferedWrite(b.Len(), err)
		if db.onBufferedFailed != nil {
			db.onBufferedFailed(err)
		}
	}
}

func (db *DB) dispatch(b *Batch) error {
	if b.Len() == 0 {
		return nil
	}

	t := db.trees
	var err error
	switch len(t) {
	case 1:
		err = segment.Transact1(t[0], func(tx1 *segment.Tx) error {
			return b.apply(tx1)
		})
	case 2:
		err = segment.Transact2(t[0], t[1], func(tx1, tx2 *segment.Tx) error {
			return b.apply(tx1, tx2)
		})
	case 3:
		err = segment.Transact3(t[0], t[1], t[2], func(tx1, tx2, tx3 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3)
		})
	case 4:
		err = segment.Transact4(t[0], t[1], t[2], t[3], func(tx1, tx2, tx3, tx4 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4)
		})
	case 5:
		err = segment.Transact5(t[0], t[1], t[2], t[3], t[4], func(tx1, tx2, tx3, tx4, tx5 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5)
		})
	case 6:
		err = segment.Transact6(t[0], t[1], t[2], t[3], t[4], t[5], func(tx1, tx2, tx3, tx4, tx5, tx6 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6)
		})
	case 7:
		err = segment.Transact7(t[0], t[1], t[2], t[3], t[4], t[5], t[6], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7)
		})
	case 8:
		err = segment.Transact8(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8)
		})
	case 9:
		err = segment.Transact9(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], t[8], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9)
		})
	case 10:
		err = segment.Transact10(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], t[8], t[9], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10)
		})
	case 11:
		err = segment.Transact11(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], t[8], t[9], t[10], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11)
		})
	case 12:
		err = segment.Transact12(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], t[8], t[9], t[10], t[11], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12)
		})
	case 13:
		err = segment.Transact13(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], t[8], t[9], t[10], t[11], t[12], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13)
		})
	case 14:
		err = segment.Transact14(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], t[8], t[9], t[10], t[11], t[12], t[13], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13, tx14 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13, tx14)
		})
	case 15:
		err = segment.Transact15(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], t[8], t[9], t[10], t[11], t[12], t[13], t[14], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13, tx14, tx15 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13, tx14, tx15)
		})
	case 16:
		err = segment.Transact16(t[0], t[1], t[2], t[3], t[4], t[5], t[6], t[7], t[8], t[9], t[10], t[11], t[12], t[13], t[14], t[15], func(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13, tx14, tx15, tx16 *segment.Tx) error {
			return b.apply(tx1, tx2, tx3, tx4, tx5, tx6, tx7, tx8, tx9, tx10, tx11, tx12, tx13, tx14, tx15, tx16)
		})
	default:
		return &UnsupportedColumnCountError{Columns: len(t) - 1, Max: MaxColumns}
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, translateError(err))
	}
	return nil
}

// apply resolves each staged operation to its transaction handle and
// stages it with the engine. txs is the full segment tuple in registry
// order.
func (b *Batch) apply(txs ...*segment.Tx) error {
	for i := range b.ops {
		op := &b.ops[i]
		tx := txs[op.col.index()]
		switch op.kind {
		case opInsert:
			if err := tx.Insert(op.key, op.value); err != nil {
				return err
			}
		case opDelete:
			if err := tx.Remove(op.key); err != nil {
				return err
			}
		}
	}
	return nil
}
