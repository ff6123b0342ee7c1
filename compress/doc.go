// Package compress provides the codecs used to hold cached tiles in memory.
//
// A tile read from a FITS file is kept in the tile cache in one of several
// residency forms, selected by format.CompressionType:
//   - None: raw big-endian samples, no CPU cost on a cache hit
//   - S2: balanced compression and speed
//   - LZ4: fastest decompression, moderate ratio
//   - Zstd: best ratio, highest CPU cost
//
// Radio and optical images often contain large blanked regions and smooth
// noise floors, so compressed residency can fit several times more tiles in
// the same cache budget. The budget itself is always accounted in pixels, not
// in resident bytes.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(raw)
//	...
//	raw, err = codec.Decompress(packed)
//
// # Zstd backends
//
// Zstd uses github.com/klauspost/compress/zstd by default. Building with the
// gozstd tag switches to the cgo binding github.com/valyala/gozstd.
//
// # Thread Safety
//
// All codecs are safe for concurrent use. Encoders and decoders that carry
// state are pooled internally.
package compress
