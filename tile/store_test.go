package tile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/arloliu/fitsimage/errs"
	"github.com/arloliu/fitsimage/format"
	"github.com/arloliu/fitsimage/header"
	"github.com/arloliu/fitsimage/internal/fitstest"
	"github.com/arloliu/fitsimage/internal/hash"
	"github.com/arloliu/fitsimage/lattice"
	"github.com/stretchr/testify/require"
)

type testImage struct {
	path   string
	shape  []int
	values []int16
	loc    header.Location
	head   []byte
}

func newTestImage(t *testing.T, shape ...int) testImage {
	t.Helper()

	values := fitstest.Int16Ramp(lattice.Product(shape))
	head := fitstest.NewImage(16, shape...).Header()
	path := fitstest.WriteFile(t, head, fitstest.Int16Data(values))

	return testImage{
		path:   path,
		shape:  shape,
		values: values,
		head:   head,
		loc: header.Location{
			Offset:      int64(len(head)),
			RecordSize:  header.BlockSize,
			RecordCount: (len(values)*2 + header.BlockSize - 1) / header.BlockSize,
		},
	}
}

func (ti testImage) open(t *testing.T, opts ...Option) *Store {
	t.Helper()

	s, err := Open(ti.path, ti.loc, ti.shape, 2, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		for s.Refs() > 0 {
			_ = s.Release()
		}
	})

	return s
}

func (ti testImage) expected(sl lattice.Slicer) []byte {
	var buf []byte
	for _, pos := range sl.All() {
		buf = binary.BigEndian.AppendUint16(buf, uint16(ti.values[lattice.Offset(ti.shape, pos)]))
	}

	return buf
}

func TestStore_RawSlice(t *testing.T) {
	ti := newTestImage(t, 37, 23, 5)

	slicers := map[string]lattice.Slicer{
		"full":         lattice.FullSlicer(ti.shape),
		"single pixel": lattice.NewSlicer([]int{36, 22, 4}, []int{1, 1, 1}, nil),
		"sub box":      lattice.NewSlicer([]int{3, 4, 1}, []int{20, 10, 3}, nil),
		"strided":      lattice.NewSlicer([]int{1, 0, 0}, []int{12, 8, 3}, []int{3, 3, 2}),
		"one column":   lattice.NewSlicer([]int{5, 0, 2}, []int{1, 23, 1}, nil),
		"plane":        lattice.NewSlicer([]int{0, 0, 3}, []int{37, 23, 1}, nil),
	}
	hints := []int{1, 10, 37, 100, 1000, 0}
	compressions := []format.CompressionType{format.CompressionNone, format.CompressionS2, format.CompressionLZ4, format.CompressionZstd}

	for _, hint := range hints {
		for _, ct := range compressions {
			t.Run(fmt.Sprintf("hint_%d_%s", hint, ct), func(t *testing.T) {
				s := ti.open(t, WithTileHint(hint), WithCompression(ct), WithMaxCacheSize(200))

				for name, sl := range slicers {
					got, err := s.RawSlice(sl)
					require.NoError(t, err, name)
					require.Equal(t, ti.expected(sl), got, name)
				}
			})
		}
	}
}

func TestStore_Bounds(t *testing.T) {
	ti := newTestImage(t, 100, 100)
	s := ti.open(t)

	_, err := s.RawSlice(lattice.NewSlicer([]int{-1, 0}, []int{1, 1}, nil))
	require.ErrorIs(t, err, errs.ErrBounds)

	_, err = s.RawSlice(lattice.NewSlicer([]int{0, 0}, []int{101, 1}, nil))
	require.ErrorIs(t, err, errs.ErrBounds)

	err = s.ReadSlice(lattice.FullSlicer(ti.shape), make([]byte, 10))
	require.Error(t, err)

	// The store is still usable after per-call errors.
	_, err = s.RawSlice(lattice.FullSlicer(ti.shape))
	require.NoError(t, err)
}

func TestStore_PutSlice(t *testing.T) {
	s := newTestImage(t, 4, 4).open(t)
	require.ErrorIs(t, s.PutSlice(lattice.FullSlicer(s.Shape()), make([]byte, 32)), errs.ErrNotWritable)
}

func TestOpen_Errors(t *testing.T) {
	ti := newTestImage(t, 10, 10)

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(ti.path+".missing", ti.loc, ti.shape, 2)
		require.ErrorIs(t, err, errs.ErrOpen)
	})

	t.Run("shape larger than file", func(t *testing.T) {
		_, err := Open(ti.path, ti.loc, []int{100, 100}, 2)
		require.ErrorIs(t, err, errs.ErrOpen)
	})

	t.Run("negative tile hint", func(t *testing.T) {
		_, err := Open(ti.path, ti.loc, ti.shape, 2, WithTileHint(-1))
		require.ErrorIs(t, err, errs.ErrOpen)
	})

	t.Run("unknown compression", func(t *testing.T) {
		_, err := Open(ti.path, ti.loc, ti.shape, 2, WithCompression(format.CompressionType(42)))
		require.ErrorIs(t, err, errs.ErrOpen)
	})

	t.Run("bad element size", func(t *testing.T) {
		_, err := Open(ti.path, ti.loc, ti.shape, 0)
		require.ErrorIs(t, err, errs.ErrOpen)
	})

	t.Run("data size overflows", func(t *testing.T) {
		_, err := Open(ti.path, ti.loc, []int{1 << 31, 1 << 31}, 4)
		require.ErrorIs(t, err, errs.ErrOpen)
	})
}

func TestStore_CacheSizing(t *testing.T) {
	ti := newTestImage(t, 100, 100)
	s := ti.open(t, WithTileHint(1000))
	require.Equal(t, 1000, s.AdvisedMaxPixels())
	require.Equal(t, []int{100, 10}, s.Layout().TileShape())

	t.Run("unlimited by default", func(t *testing.T) {
		require.Equal(t, 0, s.MaximumCacheSize())
		require.Equal(t, 0, s.CacheSizeInTiles())
	})

	t.Run("negative max clips to zero", func(t *testing.T) {
		s.SetMaxCacheSize(-5)
		require.Equal(t, 0, s.MaximumCacheSize())
	})

	t.Run("max implies tiles", func(t *testing.T) {
		s.SetMaxCacheSize(3500)
		require.Equal(t, 3, s.CacheSizeInTiles())

		s.SetMaxCacheSize(10)
		require.Equal(t, 1, s.CacheSizeInTiles(), "a non-zero ceiling keeps one tile")
	})

	t.Run("tiles clipped to max", func(t *testing.T) {
		s.SetMaxCacheSize(5000)
		s.SetCacheSizeInTiles(8)
		require.Equal(t, 5, s.CacheSizeInTiles())

		s.SetCacheSizeInTiles(2)
		require.Equal(t, 2, s.CacheSizeInTiles())

		s.SetCacheSizeInTiles(-3)
		require.Equal(t, 5, s.CacheSizeInTiles())

		s.SetMaxCacheSize(0)
		s.SetCacheSizeInTiles(8)
		require.Equal(t, 8, s.CacheSizeInTiles())
	})

	t.Run("from path", func(t *testing.T) {
		s.SetMaxCacheSize(0)

		// Rows walked along axis 1 revisit every tile of the window.
		s.SetCacheSizeFromPath([]int{100, 1}, []int{0, 0}, []int{100, 100}, []int{1, 0})
		require.Equal(t, 10, s.CacheSizeInTiles())

		// Rows walked in storage order need one tile.
		s.SetCacheSizeFromPath([]int{100, 1}, []int{0, 0}, []int{100, 100}, []int{0, 1})
		require.Equal(t, 1, s.CacheSizeInTiles())

		// Misaligned window spans an extra tile.
		s.SetCacheSizeFromPath([]int{100, 1}, []int{0, 5}, []int{100, 20}, []int{1, 0})
		require.Equal(t, 3, s.CacheSizeInTiles())

		s.SetMaxCacheSize(1500)
		s.SetCacheSizeFromPath([]int{100, 1}, []int{0, 0}, []int{100, 100}, []int{1, 0})
		require.Equal(t, 1, s.CacheSizeInTiles())

		// Bad rank is ignored.
		s.SetMaxCacheSize(0)
		s.SetCacheSizeInTiles(4)
		s.SetCacheSizeFromPath([]int{1}, []int{0}, []int{1}, nil)
		require.Equal(t, 4, s.CacheSizeInTiles())
	})
}

func rowSlicer(y int) lattice.Slicer {
	return lattice.NewSlicer([]int{0, y}, []int{100, 1}, nil)
}

func TestStore_FIFOEviction(t *testing.T) {
	ti := newTestImage(t, 100, 100)
	s := ti.open(t, WithTileHint(1000))
	s.SetCacheSizeInTiles(2)

	for _, y := range []int{0, 15, 25, 15, 0} {
		got, err := s.RawSlice(rowSlicer(y))
		require.NoError(t, err)
		require.Equal(t, ti.expected(rowSlicer(y)), got)
	}

	st := s.Stats()
	require.Equal(t, int64(5), st.Requests)
	require.Equal(t, int64(1), st.Hits)
	require.Equal(t, int64(4), st.Misses)
	require.Equal(t, int64(2), st.Evictions)
	require.Equal(t, 2, st.ResidentTiles)
	require.Equal(t, int64(4*2000), st.BytesRead)
	require.InDelta(t, 0.2, st.HitRatio(), 1e-9)

	s.ResetStats()
	require.Equal(t, int64(0), s.Stats().Hits)
	require.Equal(t, 2, s.Stats().ResidentTiles, "reset keeps resident tiles")

	s.ClearCache()
	require.Equal(t, 0, s.Stats().ResidentTiles)
	require.Equal(t, 2, s.CacheSizeInTiles(), "clear keeps the configured size")

	_, err := s.RawSlice(rowSlicer(0))
	require.NoError(t, err)
	require.Equal(t, int64(1), s.Stats().Misses)
}

func TestStore_ShrinkEvicts(t *testing.T) {
	ti := newTestImage(t, 100, 100)
	s := ti.open(t, WithTileHint(1000))

	_, err := s.RawSlice(lattice.FullSlicer(ti.shape))
	require.NoError(t, err)
	require.Equal(t, 10, s.Stats().ResidentTiles)

	s.SetMaxCacheSize(3000)
	require.Equal(t, 3, s.Stats().ResidentTiles)
	require.Equal(t, int64(7), s.Stats().Evictions)
}

func TestStore_CompressedResidency(t *testing.T) {
	head := fitstest.NewImage(16, 200, 200).Header()
	path := fitstest.WriteFile(t, head, make([]byte, 200*200*2))
	loc := header.Location{Offset: int64(len(head)), RecordSize: header.BlockSize}

	for _, ct := range []format.CompressionType{format.CompressionS2, format.CompressionLZ4, format.CompressionZstd} {
		t.Run(ct.String(), func(t *testing.T) {
			s, err := Open(path, loc, []int{200, 200}, 2, WithCompression(ct))
			require.NoError(t, err)
			defer s.Release()

			raw, err := s.RawSlice(lattice.FullSlicer([]int{200, 200}))
			require.NoError(t, err)
			require.Equal(t, make([]byte, 200*200*2), raw)

			st := s.Stats()
			require.Positive(t, st.RawBytes)
			require.Less(t, st.CompressionRatio(), 0.5)

			// Hits are served from the compressed copies.
			again, err := s.RawSlice(lattice.FullSlicer([]int{200, 200}))
			require.NoError(t, err)
			require.Equal(t, raw, again)
			require.Positive(t, s.Stats().Hits)
		})
	}
}

func TestStore_TempCloseReopen(t *testing.T) {
	ti := newTestImage(t, 50, 40)
	s := ti.open(t, WithTileHint(500), WithFingerprint(hash.Fingerprint(ti.head)))
	s.SetMaxCacheSize(2000)

	full := lattice.FullSlicer(ti.shape)
	before, err := s.RawSlice(full)
	require.NoError(t, err)

	require.NoError(t, s.TempClose())
	require.False(t, s.IsOpen())
	require.Equal(t, 0, s.Stats().ResidentTiles)
	require.NoError(t, s.TempClose(), "closing twice is a no-op")

	require.NoError(t, s.Reopen())
	require.True(t, s.IsOpen())
	require.NoError(t, s.Reopen(), "reopening an open store is a no-op")
	require.Equal(t, 2000, s.MaximumCacheSize())

	after, err := s.RawSlice(full)
	require.NoError(t, err)
	require.Equal(t, before, after)

	t.Run("implicit reopen", func(t *testing.T) {
		require.NoError(t, s.TempClose())
		got, err := s.RawSlice(full)
		require.NoError(t, err)
		require.Equal(t, before, got)
		require.True(t, s.IsOpen())
	})

	t.Run("changed header is detected", func(t *testing.T) {
		require.NoError(t, s.TempClose())

		data, err := os.ReadFile(ti.path)
		require.NoError(t, err)
		idx := bytes.Index(data, []byte("AXIS1"))
		require.Positive(t, idx)
		copy(data[idx:], "AXISX")
		require.NoError(t, os.WriteFile(ti.path, data, 0o600))

		err = s.Reopen()
		require.ErrorIs(t, err, errs.ErrOpen)
		require.False(t, s.IsOpen())

		_, err = s.RawSlice(full)
		require.ErrorIs(t, err, errs.ErrOpen)
	})
}

func TestStore_Release(t *testing.T) {
	ti := newTestImage(t, 8, 8)
	s, err := Open(ti.path, ti.loc, ti.shape, 2)
	require.NoError(t, err)

	s.Retain()
	require.Equal(t, 2, s.Refs())

	require.NoError(t, s.Release())
	require.False(t, s.IsDestroyed())
	_, err = s.RawSlice(lattice.FullSlicer(ti.shape))
	require.NoError(t, err)

	require.NoError(t, s.Release())
	require.True(t, s.IsDestroyed())

	_, err = s.RawSlice(lattice.FullSlicer(ti.shape))
	require.ErrorIs(t, err, errs.ErrClosed)
	require.ErrorIs(t, s.Reopen(), errs.ErrClosed)
	require.ErrorIs(t, s.TempClose(), errs.ErrClosed)
	require.ErrorIs(t, s.Release(), errs.ErrClosed)
}

func TestStore_ShowCacheStatistics(t *testing.T) {
	ti := newTestImage(t, 20, 20)
	s := ti.open(t, WithTileHint(100))

	_, err := s.RawSlice(lattice.FullSlicer(ti.shape))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, s.ShowCacheStatistics(&sb))
	out := sb.String()
	require.Contains(t, out, ti.path)
	require.Contains(t, out, "tile_shape=[20 5]")
	require.Contains(t, out, "misses=4")
	require.Contains(t, out, "state=open")
}

func BenchmarkStore_RawSlice(b *testing.B) {
	shape := []int{512, 512}
	head := fitstest.NewImage(16, shape...).Header()
	path := fitstest.WriteFile(b, head, fitstest.Int16Data(fitstest.Int16Ramp(512*512)))
	loc := header.Location{Offset: int64(len(head)), RecordSize: header.BlockSize}

	s, err := Open(path, loc, shape, 2)
	if err != nil {
		b.Fatal(err)
	}
	defer s.Release()

	sl := lattice.NewSlicer([]int{100, 100}, []int{128, 128}, nil)
	dst := make([]byte, sl.Count()*2)

	for b.Loop() {
		if err := s.ReadSlice(sl, dst); err != nil {
			b.Fatal(err)
		}
	}
}
