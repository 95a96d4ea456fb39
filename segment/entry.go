package segment

import (
	"bytes"
	"hash/crc32"
)

// Entry is a key/value pair yielded by scans. Key and Value are copies
// owned by the caller.
type Entry struct {
	Key   []byte
	Value []byte
}

// entry is the in-tree representation. The checksum is computed when the
// entry is applied and verified on every read, so damage to resident data
// (or a bad snapshot load) is detected instead of served.
type entry struct {
	key   []byte
	value []byte
	sum   uint32
}

func newEntry(key, value []byte) *entry {
	k := bytes.Clone(key)
	v := bytes.Clone(value)
	return &entry{key: k, value: v, sum: entrySum(k, v)}
}

func entrySum(key, value []byte) uint32 {
	sum := crc32.ChecksumIEEE(key)
	return crc32.Update(sum, crc32.IEEETable, value)
}

func (e *entry) verify() bool {
	return e.sum == entrySum(e.key, e.value)
}

func entryLess(a, b *entry) bool {
	return bytes.Compare(a.key, b.key) < 0
}
