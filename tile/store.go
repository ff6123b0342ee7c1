package tile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync/atomic"

	"github.com/arloliu/fitsimage/compress"
	"github.com/arloliu/fitsimage/errs"
	"github.com/arloliu/fitsimage/header"
	"github.com/arloliu/fitsimage/internal/hash"
	"github.com/arloliu/fitsimage/internal/options"
	"github.com/arloliu/fitsimage/lattice"
)

type state uint8

const (
	stateOpen state = iota
	stateTempClosed
	stateDestroyed
)

func (s state) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateTempClosed:
		return "temporarily closed"
	default:
		return "destroyed"
	}
}

// Store serves raw sample bytes of a FITS data region through a tile cache.
type Store struct {
	path     string
	loc      header.Location
	layout   Layout
	elemSize int
	count    int
	cfg      *config
	logger   *slog.Logger

	file  *os.File
	state state
	refs  atomic.Int32

	cache       *fifoCache
	maxPixels   int
	tilesWanted int
	stats       Stats
}

// Open opens the data region of path described by loc and shape.
//
// It fails with errs.ErrOpen when the file cannot be opened or is too short
// to hold shape samples of elemSize bytes at loc.Offset. The returned store
// holds one reference.
func Open(path string, loc header.Location, shape []int, elemSize int, opts ...Option) (*Store, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpen, path, err)
	}
	if elemSize <= 0 {
		return nil, fmt.Errorf("%w: %s: element size %d", errs.ErrOpen, path, elemSize)
	}
	if _, ok := lattice.ByteSize(shape, elemSize); !ok {
		return nil, fmt.Errorf("%w: %s: data of shape %v overflows", errs.ErrOpen, path, shape)
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpen, path, err)
	}

	s := &Store{
		path:      path,
		loc:       loc,
		layout:    NewLayout(shape, cfg.tileHint),
		elemSize:  elemSize,
		count:     lattice.Product(shape),
		cfg:       cfg,
		logger:    cfg.logger,
		maxPixels: cfg.maxPixels,
		state:     stateTempClosed,
	}
	s.cache = newFIFOCache(codec, s.capacity())
	s.refs.Store(1)

	if err := s.open(); err != nil {
		return nil, err
	}

	s.logger.Debug("tile: store opened",
		"path", path,
		"shape", shape,
		"tile_shape", s.layout.TileShape(),
		"tiles", s.layout.TileCount(),
		"compression", cfg.compression.String())

	return s, nil
}

func (s *Store) open() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrOpen, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", errs.ErrOpen, err)
	}

	need := s.loc.DataEnd(s.count, s.elemSize)
	if info.Size() < need {
		_ = f.Close()
		return fmt.Errorf("%w: %s is %d bytes, data region needs %d", errs.ErrOpen, s.path, info.Size(), need)
	}

	if s.cfg.hasFingerprint {
		if err := s.verify(f); err != nil {
			_ = f.Close()
			return err
		}
	}

	if err := adviseRandom(f); err != nil {
		s.logger.Debug("tile: fadvise failed", "path", s.path, "error", err)
	}

	s.file = f
	s.state = stateOpen

	return nil
}

func (s *Store) verify(f *os.File) error {
	buf := make([]byte, s.loc.Offset)
	if _, err := f.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: read header of %s: %w", errs.ErrOpen, s.path, err)
	}
	if hash.Fingerprint(buf) != s.cfg.fingerprint {
		return fmt.Errorf("%w: %s header changed since it was first opened", errs.ErrOpen, s.path)
	}

	return nil
}

// Path returns the file path.
func (s *Store) Path() string {
	return s.path
}

// Shape returns the shape of the data region.
func (s *Store) Shape() []int {
	return s.layout.Shape()
}

// Layout returns the tiling of the data region.
func (s *Store) Layout() Layout {
	return s.layout
}

// ElemSize returns the size of one sample in bytes.
func (s *Store) ElemSize() int {
	return s.elemSize
}

// Location returns the data region location.
func (s *Store) Location() header.Location {
	return s.loc
}

// IsOpen reports whether the file is currently open.
func (s *Store) IsOpen() bool {
	return s.state == stateOpen
}

// IsDestroyed reports whether the last reference has been released.
func (s *Store) IsDestroyed() bool {
	return s.state == stateDestroyed
}

// Retain adds a holder of the store.
func (s *Store) Retain() {
	s.refs.Add(1)
}

// Refs returns the number of holders.
func (s *Store) Refs() int {
	return int(s.refs.Load())
}

// Release drops a holder. The last Release closes the file and drops the
// cache; later calls return errs.ErrClosed.
func (s *Store) Release() error {
	n := s.refs.Add(-1)
	switch {
	case n > 0:
		return nil
	case n < 0:
		s.refs.Store(0)
		return errs.ErrClosed
	}

	err := s.closeFile()
	s.cache.clear()
	s.state = stateDestroyed
	s.logger.Debug("tile: store released", "path", s.path)

	return err
}

// TempClose releases the file descriptor and cached tiles. Configuration and
// statistics are kept; the next read or Reopen opens the file again.
func (s *Store) TempClose() error {
	switch s.state {
	case stateDestroyed:
		return errs.ErrClosed
	case stateTempClosed:
		return nil
	}

	err := s.closeFile()
	s.cache.clear()
	s.state = stateTempClosed
	s.logger.Debug("tile: store temporarily closed", "path", s.path)

	return err
}

// Reopen reopens a temporarily closed store. It is a no-op on an open store.
func (s *Store) Reopen() error {
	switch s.state {
	case stateDestroyed:
		return errs.ErrClosed
	case stateOpen:
		return nil
	}

	if err := s.open(); err != nil {
		return err
	}
	s.logger.Debug("tile: store reopened", "path", s.path)

	return nil
}

func (s *Store) closeFile() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil

	return err
}

// RawSlice returns the big-endian samples selected by sl in Fortran order.
func (s *Store) RawSlice(sl lattice.Slicer) ([]byte, error) {
	if err := sl.Validate(s.layout.shape); err != nil {
		return nil, err
	}

	dst := make([]byte, sl.Count()*s.elemSize)
	if err := s.ReadSlice(sl, dst); err != nil {
		return nil, err
	}

	return dst, nil
}

// ReadSlice is RawSlice into a caller buffer of at least
// sl.Count()*ElemSize() bytes.
func (s *Store) ReadSlice(sl lattice.Slicer, dst []byte) error {
	if err := sl.Validate(s.layout.shape); err != nil {
		return err
	}
	if need := sl.Count() * s.elemSize; len(dst) < need {
		return fmt.Errorf("destination holds %d bytes, slice needs %d", len(dst), need)
	}
	if err := s.ensureOpen(); err != nil {
		return err
	}

	s.stats.Requests++

	// Copy run by run along axis 0; the remaining axes select the runs.
	rows := sl
	rows.Length = slices.Clone(sl.Length)
	rows.Length[0] = 1

	strides := lattice.Strides(s.layout.shape)
	run := sl.Length[0]
	step := sl.Stride[0]
	out := 0
	cur := tileRef{id: -1}

	for _, pos := range rows.All() {
		first := 0
		for ax, p := range pos {
			first += p * strides[ax]
		}

		if err := s.copyRun(&cur, dst[out:out+run*s.elemSize], first, run, step); err != nil {
			return err
		}
		out += run * s.elemSize
	}

	return nil
}

// tileRef pins the tile most recently used by a read, so consecutive runs
// inside one tile neither hit the cache again nor lose the tile to eviction.
type tileRef struct {
	id     int
	start  int
	length int
	data   []byte
}

// copyRun copies n samples starting at sample index idx, step apart.
func (s *Store) copyRun(cur *tileRef, dst []byte, idx int, n int, step int) error {
	es := s.elemSize
	for n > 0 {
		if cur.id < 0 || idx < cur.start || idx >= cur.start+cur.length {
			id, start, length := s.layout.Locate(idx)
			data, err := s.tile(id, start, length)
			if err != nil {
				return err
			}
			*cur = tileRef{id: id, start: start, length: length, data: data}
		}

		start, end, data := cur.start, cur.start+cur.length, cur.data
		if step == 1 {
			m := min(n, end-idx)
			copy(dst[:m*es], data[(idx-start)*es:(idx-start+m)*es])
			dst = dst[m*es:]
			idx += m
			n -= m

			continue
		}

		for n > 0 && idx < end {
			copy(dst[:es], data[(idx-start)*es:])
			dst = dst[es:]
			idx += step
			n--
		}
	}

	return nil
}

// tile returns the raw bytes of tile id, reading it from disk on a miss.
// The returned slice stays valid for the caller even if the tile is evicted.
func (s *Store) tile(id int, start int, length int) ([]byte, error) {
	data, ok, err := s.cache.get(id)
	if err != nil {
		s.logger.Warn("tile: dropping corrupt cached tile", "path", s.path, "tile", id, "error", err)
	}
	if ok {
		s.stats.Hits++
		return data, nil
	}

	s.stats.Misses++
	buf := make([]byte, length*s.elemSize)
	off := s.loc.Offset + int64(start)*int64(s.elemSize)
	if _, err := s.file.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("read tile %d of %s at offset %d: %w", id, s.path, off, err)
	}
	s.stats.BytesRead += int64(len(buf))

	evicted := s.cache.evictions
	if err := s.cache.put(id, buf); err != nil {
		s.logger.Warn("tile: cannot cache tile", "path", s.path, "tile", id, "error", err)
	}
	s.stats.Evictions += s.cache.evictions - evicted

	return buf, nil
}

func (s *Store) ensureOpen() error {
	switch s.state {
	case stateOpen:
		return nil
	case stateTempClosed:
		return s.Reopen()
	default:
		return errs.ErrClosed
	}
}

// PutSlice always fails: FITS images are read-only.
func (s *Store) PutSlice(_ lattice.Slicer, _ []byte) error {
	return fmt.Errorf("%w: %s", errs.ErrNotWritable, s.path)
}

// AdvisedMaxPixels returns the number of pixels in one tile.
func (s *Store) AdvisedMaxPixels() int {
	return s.layout.TilePixels()
}

// NiceCursorShape returns an access shape of whole tiles within maxPixels.
func (s *Store) NiceCursorShape(maxPixels int) []int {
	return s.layout.NiceCursorShape(maxPixels)
}
