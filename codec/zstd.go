package codec

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

func zstdInit() {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil)
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil)
	})
}

// Zstd compresses payloads with zstandard. Better ratios than S2 at
// higher CPU cost; a good fit for cold snapshots.
type Zstd struct{}

// Encode implements Codec.
func (Zstd) Encode(src []byte) ([]byte, error) {
	zstdInit()
	if zstdErr != nil {
		return nil, zstdErr
	}
	return zstdEnc.EncodeAll(src, nil), nil
}

// Decode implements Codec.
func (Zstd) Decode(src []byte) ([]byte, error) {
	zstdInit()
	if zstdErr != nil {
		return nil, zstdErr
	}
	return zstdDec.DecodeAll(src, nil)
}

// Name implements Codec.
func (Zstd) Name() string { return "zstd" }
