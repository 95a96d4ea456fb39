package codec

import "github.com/klauspost/compress/s2"

// S2 compresses payloads with the S2 block format.
// It is the default: fast on both paths with reasonable ratios for
// key/value data.
type S2 struct{}

// Encode implements Codec.
func (S2) Encode(src []byte) ([]byte, error) {
	return s2.Encode(nil, src), nil
}

// Decode implements Codec.
func (S2) Decode(src []byte) ([]byte, error) {
	return s2.Decode(nil, src)
}

// Name implements Codec.
func (S2) Name() string { return "s2" }
