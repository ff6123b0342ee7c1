package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Compressor keeps tiles as S2 blocks.
//
// S2 decodes fastest of the compressing codecs and is the usual choice when
// a cursor revisits tiles often.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress encodes one tile as an S2 block.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes one S2 block.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// decompressSized checks the block's recorded length against size before
// decoding into an exactly sized buffer.
func (c S2Compressor) decompressSized(data []byte, size int) ([]byte, error) {
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("s2 block holds %d bytes, want %d", n, size)
	}

	return s2.Decode(make([]byte, size), data)
}
