// Package codec centralizes block compression for persisted tree snapshots.
//
// Snapshot files are self-describing: they store the codec name in their
// header, so a store written with one codec can always be reopened even if
// the configured default changes later.
package codec

import "fmt"

// Codec compresses and decompresses snapshot payloads.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Encode compresses src and returns the encoded payload.
	Encode(src []byte) ([]byte, error)

	// Decode decompresses src and returns the original payload.
	Decode(src []byte) ([]byte, error)

	// Name returns the stable on-disk identifier of the codec.
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = S2{}

// ByName returns a built-in codec by its stable name.
//
// This is used by the self-describing snapshot format, which stores the
// codec name in its header.
func ByName(name string) (Codec, bool) {
	switch name {
	case "raw":
		return Raw{}, true
	case "s2":
		return S2{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// MustEncode is a helper for internal tests/benchmarks.
func MustEncode(c Codec, src []byte) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Encode(src)
	if err != nil {
		panic(fmt.Errorf("codec %s encode failed: %w", c.Name(), err))
	}
	return b
}

// Raw is a pass-through codec that stores payloads uncompressed.
type Raw struct{}

// Encode implements Codec.
func (Raw) Encode(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}

// Decode implements Codec.
func (Raw) Decode(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}

// Name implements Codec.
func (Raw) Name() string { return "raw" }
