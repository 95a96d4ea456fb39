package segment

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/hupe1980/kvgo/codec"
)

// Snapshot layout:
//
//	[Magic:8]["kvgoseg1"]
//	[CodecNameLen:1][CodecName]
//	[CRC32:4]   over the encoded payload
//	[PayloadLen:4]
//	[Payload]   codec-encoded stream of [KeyLen:4][Key][ValueLen:4][Value]
//
// The codec name makes snapshots self-describing: a store reopened with a
// different configured codec still decodes existing files.

var snapshotMagic = [8]byte{'k', 'v', 'g', 'o', 's', 'e', 'g', '1'}

func (s *Store) snapshotPath(t *Tree) string {
	return filepath.Join(s.dir, t.name+".seg")
}

// writeSnapshot persists the tree atomically (tmp file + rename).
// Callers must hold s.mu.
func (s *Store) writeSnapshot(t *Tree) error {
	t.mu.Lock()
	snap := t.items.Clone()
	t.mu.Unlock()

	var payload []byte
	snap.Ascend(func(e *entry) bool {
		payload = binary.LittleEndian.AppendUint32(payload, uint32(len(e.key)))
		payload = append(payload, e.key...)
		payload = binary.LittleEndian.AppendUint32(payload, uint32(len(e.value)))
		payload = append(payload, e.value...)
		return true
	})

	enc, err := s.codec.Encode(payload)
	if err != nil {
		return fmt.Errorf("segment: encode snapshot %q: %w", t.name, err)
	}

	name := s.codec.Name()
	buf := make([]byte, 0, 8+1+len(name)+4+4+len(enc))
	buf = append(buf, snapshotMagic[:]...)
	buf = append(buf, byte(len(name)))
	buf = append(buf, name...)
	buf = binary.LittleEndian.AppendUint32(buf, crc32.ChecksumIEEE(enc))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(enc)))
	buf = append(buf, enc...)

	if err := atomicWriteFile(s.snapshotPath(t), buf); err != nil {
		return fmt.Errorf("segment: write snapshot %q: %w", t.name, err)
	}
	return nil
}

// loadSnapshot restores a tree from its snapshot file, if one exists.
// Only called during Open, before the store is shared.
func (s *Store) loadSnapshot(t *Tree) error {
	data, err := os.ReadFile(s.snapshotPath(t))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("segment: read snapshot %q: %w", t.name, err)
	}

	bad := func(what string) error {
		return fmt.Errorf("segment: snapshot %q: %s", t.name, what)
	}

	if len(data) < 9 || [8]byte(data[:8]) != snapshotMagic {
		return bad("bad magic")
	}
	off := 8
	nameLen := int(data[off])
	off++
	if off+nameLen > len(data) {
		return bad("truncated codec name")
	}
	codecName := string(data[off : off+nameLen])
	off += nameLen

	c, ok := codec.ByName(codecName)
	if !ok {
		return bad(fmt.Sprintf("unknown codec %q", codecName))
	}

	if off+8 > len(data) {
		return bad("truncated header")
	}
	sum := binary.LittleEndian.Uint32(data[off : off+4])
	encLen := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
	off += 8
	if off+encLen != len(data) {
		return bad("payload length mismatch")
	}
	enc := data[off:]
	if crc32.ChecksumIEEE(enc) != sum {
		return bad("checksum mismatch")
	}

	payload, err := c.Decode(enc)
	if err != nil {
		return fmt.Errorf("segment: decode snapshot %q: %w", t.name, err)
	}

	pos := 0
	read := func(n int) ([]byte, error) {
		if pos+n > len(payload) {
			return nil, bad("truncated entry")
		}
		b := payload[pos : pos+n]
		pos += n
		return b, nil
	}
	for pos < len(payload) {
		lb, err := read(4)
		if err != nil {
			return err
		}
		key, err := read(int(binary.LittleEndian.Uint32(lb)))
		if err != nil {
			return err
		}
		if lb, err = read(4); err != nil {
			return err
		}
		value, err := read(int(binary.LittleEndian.Uint32(lb)))
		if err != nil {
			return err
		}
		t.items.ReplaceOrInsert(newEntry(key, value))
	}
	return nil
}
