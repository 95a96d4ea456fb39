package wal

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// Record framing:
//
//	[PayloadLen:4][CRC32:4][Payload]
//
// Payload:
//
//	[OpCount:4] then per op [Kind:1][Tree:4][KeyLen:4][Key][ValueLen:4][Value]
//
// All integers little-endian. The CRC covers the payload only; a mismatch
// or a short read marks the end of the intact prefix.

func encodeRecord(rec *Record) []byte {
	n := 4
	for i := range rec.Ops {
		n += 1 + 4 + 4 + len(rec.Ops[i].Key) + 4 + len(rec.Ops[i].Value)
	}

	buf := make([]byte, 8, 8+n)
	payload := binary.LittleEndian.AppendUint32(nil, uint32(len(rec.Ops)))
	for i := range rec.Ops {
		op := &rec.Ops[i]
		payload = append(payload, byte(op.Kind))
		payload = binary.LittleEndian.AppendUint32(payload, op.Tree)
		payload = binary.LittleEndian.AppendUint32(payload, uint32(len(op.Key)))
		payload = append(payload, op.Key...)
		payload = binary.LittleEndian.AppendUint32(payload, uint32(len(op.Value)))
		payload = append(payload, op.Value...)
	}

	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[4:8], crc32.ChecksumIEEE(payload))
	return append(buf, payload...)
}

func decodePayload(payload []byte, fn func(op *Op) error) error {
	if len(payload) < 4 {
		return fmt.Errorf("wal: record payload too short: %d", len(payload))
	}
	count := binary.LittleEndian.Uint32(payload[0:4])
	off := 4

	read := func(n int) ([]byte, error) {
		if off+n > len(payload) {
			return nil, fmt.Errorf("wal: record payload truncated")
		}
		b := payload[off : off+n]
		off += n
		return b, nil
	}

	for range count {
		hdr, err := read(1 + 4 + 4)
		if err != nil {
			return err
		}
		op := Op{
			Kind: Kind(hdr[0]),
			Tree: binary.LittleEndian.Uint32(hdr[1:5]),
		}
		klen := int(binary.LittleEndian.Uint32(hdr[5:9]))
		if op.Key, err = read(klen); err != nil {
			return err
		}
		vb, err := read(4)
		if err != nil {
			return err
		}
		vlen := int(binary.LittleEndian.Uint32(vb))
		if op.Value, err = read(vlen); err != nil {
			return err
		}
		if err := fn(&op); err != nil {
			return err
		}
	}
	return nil
}

// replay streams intact records from the start of f through fn and returns
// the offset of the first byte past the last intact record. Torn or
// corrupted trailing data ends the replay without error; an error from fn
// aborts it.
func replay(f *os.File, fn func(op *Op) error) (int64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("wal: seek: %w", err)
	}

	var valid int64
	hdr := make([]byte, 8)
	for {
		if _, err := io.ReadFull(f, hdr); err != nil {
			// Clean EOF or a torn header both end the intact prefix.
			return valid, nil
		}
		payloadLen := binary.LittleEndian.Uint32(hdr[0:4])
		sum := binary.LittleEndian.Uint32(hdr[4:8])

		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(f, payload); err != nil {
			return valid, nil
		}
		if crc32.ChecksumIEEE(payload) != sum {
			return valid, nil
		}
		if fn != nil {
			if err := decodePayload(payload, fn); err != nil {
				return 0, err
			}
		}
		valid += int64(8 + len(payload))
	}
}
