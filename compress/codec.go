package compress

import (
	"fmt"

	"github.com/arloliu/fitsimage/format"
)

// Compressor compresses a tile's raw sample bytes for cache residency.
//
// The returned slice is owned by the caller. The input slice is not modified,
// except that NoOp returns it as-is.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores raw sample bytes from a resident tile.
//
// An error is returned if data is corrupted or was produced by a different
// algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported tile residency compression: %s", compressionType)
}

// sizedDecompressor is implemented by codecs that can decode straight into a
// buffer of the known tile length.
type sizedDecompressor interface {
	decompressSized(data []byte, size int) ([]byte, error)
}

// Restore decompresses data and checks that the result is exactly size bytes.
//
// Tiles have a known raw length, so a length mismatch means the resident copy
// is corrupt.
func Restore(codec Decompressor, data []byte, size int) ([]byte, error) {
	var raw []byte
	var err error
	if sc, ok := codec.(sizedDecompressor); ok && size > 0 {
		raw, err = sc.decompressSized(data, size)
	} else {
		raw, err = codec.Decompress(data)
	}
	if err != nil {
		return nil, err
	}
	if len(raw) != size {
		return nil, fmt.Errorf("restored tile has %d bytes, want %d", len(raw), size)
	}

	return raw, nil
}
