package compress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/arloliu/fitsimage/format"
	"github.com/stretchr/testify/require"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp": NewNoOpCompressor(),
		"LZ4":  NewLZ4Compressor(),
		"S2":   NewS2Compressor(),
		"Zstd": NewZstdCompressor(),
	}
}

// float32Tile builds big-endian float32 samples resembling an image plane:
// a smooth gradient with a blanked (NaN) border.
func float32Tile(nx, ny int) []byte {
	buf := make([]byte, 0, nx*ny*4)
	for y := range ny {
		for x := range nx {
			v := float32(x+y) * 0.25
			if x < 2 || y < 2 {
				v = float32(math.NaN())
			}
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}

	return buf
}

func TestGetCodec(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)
			require.NotNil(t, codec)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		codec, err := GetCodec(format.CompressionType(99))
		require.Error(t, err)
		require.Nil(t, codec)
	})
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Nil(t, compressed)

			decompressed, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Nil(t, decompressed)

			compressed, err = codec.Compress([]byte{})
			require.NoError(t, err)

			decompressed, err = codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "single_byte", data: []byte{0x42}},
		{name: "float32_plane", data: float32Tile(64, 64)},
		{name: "int16_blanks", data: bytes.Repeat([]byte{0x80, 0x00}, 8192)},
		{
			name: "int16_ramp",
			data: func() []byte {
				buf := make([]byte, 0, 2*4096)
				for i := range 4096 {
					buf = binary.BigEndian.AppendUint16(buf, uint16(i*7))
				}

				return buf
			}(),
		},
		{name: "zero_cube", data: make([]byte, 1024*1024)},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)
					require.NotNil(t, compressed)

					t.Logf("raw: %d bytes, resident: %d bytes", len(tc.data), len(compressed))

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)

					restored, err := Restore(codec, compressed, len(tc.data))
					require.NoError(t, err)
					require.Equal(t, tc.data, restored)
				})
			}
		})
	}
}

func TestRestore_SizeMismatch(t *testing.T) {
	codec := NewS2Compressor()
	compressed, err := codec.Compress(float32Tile(8, 8))
	require.NoError(t, err)

	_, err = Restore(codec, compressed, 8*8*4+1)
	require.ErrorContains(t, err, "want 257")

	lz := NewLZ4Compressor()
	compressed, err = lz.Compress(float32Tile(8, 8))
	require.NoError(t, err)

	_, err = Restore(lz, compressed, 8*8*4-1)
	require.Error(t, err)
	_, err = Restore(lz, compressed, 8*8*4+1)
	require.ErrorContains(t, err, "want 257")
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalidInputs := []struct {
		name string
		data []byte
	}{
		{name: "random_bytes", data: []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "text_as_compressed", data: []byte("this is not compressed data")},
		{name: "corrupted_header", data: []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			if codecName == "NoOp" {
				t.Skip("NoOp codec doesn't validate data")
			}

			for _, input := range invalidInputs {
				t.Run(input.name, func(t *testing.T) {
					_, err := codec.Decompress(input.data)
					require.Error(t, err)
				})
			}
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const numGoroutines = 20
	tile := float32Tile(32, 32)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(tile)
			require.NoError(t, err)

			done := make(chan error, numGoroutines*2)
			for range numGoroutines {
				go func() {
					_, err := codec.Compress(tile)
					done <- err
				}()

				go func() {
					decompressed, err := codec.Decompress(compressed)
					if err != nil {
						done <- err
						return
					}
					if !bytes.Equal(tile, decompressed) {
						done <- fmt.Errorf("data mismatch")
						return
					}
					done <- nil
				}()
			}

			for range numGoroutines * 2 {
				require.NoError(t, <-done)
			}
		})
	}
}

func TestAllCodecs_BlankedPlane(t *testing.T) {
	// A fully blanked int16 plane is the common worst case for cache budget.
	original := bytes.Repeat([]byte{0x80, 0x00}, 512*1024)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(original)
			require.NoError(t, err)

			if codecName == "NoOp" {
				require.Len(t, compressed, len(original))
			} else {
				require.Less(t, len(compressed), len(original)/10)
			}

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, original, decompressed)
		})
	}
}
