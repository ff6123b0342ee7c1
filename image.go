package fitsimage

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/arloliu/fitsimage/coords"
	"github.com/arloliu/fitsimage/encoding"
	"github.com/arloliu/fitsimage/errs"
	"github.com/arloliu/fitsimage/format"
	"github.com/arloliu/fitsimage/header"
	"github.com/arloliu/fitsimage/internal/pool"
	"github.com/arloliu/fitsimage/lattice"
	"github.com/arloliu/fitsimage/mask"
	"github.com/arloliu/fitsimage/tile"
)

// Image is a read-only handle to the primary image of a FITS file.
//
// Handles made by Clone share the file, the tile cache and its settings.
// Unit and metadata overrides are local to each handle. An Image is not safe
// for concurrent use, and neither are clones of the same image.
type Image struct {
	path   string
	policy format.MaskPolicy
	store  *tile.Store
	dec    encoding.Decoder
	geom   header.Geometry
	closed bool
	logger *slog.Logger
}

var _ mask.Source = (*Image)(nil)

// Shape returns the axis lengths, NAXIS1 first.
func (img *Image) Shape() []int {
	return slices.Clone(img.geom.Shape)
}

// NDim returns the number of axes.
func (img *Image) NDim() int {
	return len(img.geom.Shape)
}

// DataType returns the on-disk sample type.
func (img *Image) DataType() format.DataType {
	return img.dec.DataType()
}

// Encoding returns the numeric encoding of the samples.
func (img *Image) Encoding() encoding.Encoding {
	return img.dec.Encoding()
}

// MaskPolicy returns the mask policy the image was opened with.
func (img *Image) MaskPolicy() format.MaskPolicy {
	return img.policy
}

// Unit returns the brightness unit (BUNIT) or its in-memory override.
func (img *Image) Unit() string {
	return img.geom.Unit
}

// SetUnit overrides the unit of this handle. The file is not modified.
func (img *Image) SetUnit(unit string) {
	img.geom.Unit = unit
}

// MiscInfo returns a copy of the header cards not otherwise interpreted.
func (img *Image) MiscInfo() header.Record {
	return img.geom.Misc.Clone()
}

// SetMiscInfo replaces the metadata record of this handle. The file is not
// modified.
func (img *Image) SetMiscInfo(rec header.Record) {
	img.geom.Misc = rec.Clone()
}

// Coordinates returns the world coordinate system.
func (img *Image) Coordinates() *coords.System {
	return img.geom.Coords
}

// ImageInfo returns descriptive attributes such as the restoring beam.
func (img *Image) ImageInfo() header.ImageInfo {
	return img.geom.Info
}

// Name returns the file path, or only its last element when stripPath is set.
func (img *Image) Name(stripPath bool) string {
	if stripPath {
		return filepath.Base(img.path)
	}

	return img.path
}

// ImageType returns "FITSImage".
func (img *Image) ImageType() string {
	return ImageType
}

// IsMasked is always true: validity is intrinsic to the format.
func (img *Image) IsMasked() bool { return true }

// HasPixelMask is always true.
func (img *Image) HasPixelMask() bool { return true }

// IsPaged is always true.
func (img *Image) IsPaged() bool { return true }

// IsPersistent is always true.
func (img *Image) IsPersistent() bool { return true }

// IsWritable is always false.
func (img *Image) IsWritable() bool { return false }

// PixelMask returns a read-only lattice view of the pixel mask.
func (img *Image) PixelMask() *mask.Lattice {
	return mask.NewLattice(img)
}

// GetSlice returns the values and validity of the region selected by s, in
// Fortran order. Both buffers are freshly allocated on every call.
func (img *Image) GetSlice(s lattice.Slicer) ([]float32, []bool, error) {
	var values []float32
	var valid []bool

	err := img.readRaw(s, func(raw []byte, n int) {
		values = make([]float32, n)
		img.dec.DecodeSlice(raw, values)
		valid = img.validity(raw, n)
	})
	if err != nil {
		return nil, nil, err
	}

	return values, valid, nil
}

// GetValueSlice returns only the values of the region selected by s.
func (img *Image) GetValueSlice(s lattice.Slicer) ([]float32, error) {
	var values []float32

	err := img.readRaw(s, func(raw []byte, n int) {
		values = make([]float32, n)
		img.dec.DecodeSlice(raw, values)
	})
	if err != nil {
		return nil, err
	}

	return values, nil
}

// GetMaskSlice returns only the validity of the region selected by s.
//
// When the encoding guarantees that no sample is blanked, or the mask policy
// is MaskDoNotApply, no pixel data is read.
func (img *Image) GetMaskSlice(s lattice.Slicer) ([]bool, error) {
	if err := img.check(s); err != nil {
		return nil, err
	}
	if !img.policy.Applies() || mask.AllValid(img.dec.Encoding()) {
		return mask.Full(s.Count()), nil
	}

	var valid []bool
	err := img.readRaw(s, func(raw []byte, n int) {
		valid = img.validity(raw, n)
	})
	if err != nil {
		return nil, err
	}

	return valid, nil
}

func (img *Image) check(s lattice.Slicer) error {
	if img.closed {
		return errs.ErrClosed
	}

	return s.Validate(img.geom.Shape)
}

// readRaw reads the raw samples of s into a pooled buffer and hands them to
// fn, which must not retain raw.
func (img *Image) readRaw(s lattice.Slicer, fn func(raw []byte, n int)) error {
	if err := img.check(s); err != nil {
		return err
	}

	n := s.Count()
	raw, cleanup := pool.GetByteSlice(n * img.dec.ElemSize())
	defer cleanup()

	if err := img.store.ReadSlice(s, raw); err != nil {
		return err
	}
	fn(raw, n)

	return nil
}

func (img *Image) validity(raw []byte, n int) []bool {
	if !img.policy.Applies() {
		return mask.Full(n)
	}

	return mask.FromDecoder(raw, img.dec)
}

// PutSlice always fails with errs.ErrNotWritable.
func (img *Image) PutSlice(_ lattice.Slicer, _ []float32) error {
	return img.notWritable("put slice")
}

// PutMaskSlice always fails with errs.ErrNotWritable.
func (img *Image) PutMaskSlice(_ lattice.Slicer, _ []bool) error {
	return img.notWritable("put mask slice")
}

// Resize always fails with errs.ErrNotWritable.
func (img *Image) Resize(_ []int) error {
	return img.notWritable("resize")
}

// FlushMetadata always fails with errs.ErrNotWritable: unit and metadata
// overrides cannot be persisted.
func (img *Image) FlushMetadata() error {
	return img.notWritable("flush metadata")
}

func (img *Image) notWritable(op string) error {
	return fmt.Errorf("%w: %s %s", errs.ErrNotWritable, op, img.path)
}

// Clone returns a second handle to the same image. The clone shares the file
// and tile cache; it starts with a copy of this handle's unit and metadata.
func (img *Image) Clone() (*Image, error) {
	if img.closed {
		return nil, errs.ErrClosed
	}

	img.store.Retain()
	clone := *img
	clone.geom.Shape = slices.Clone(img.geom.Shape)
	clone.geom.Misc = img.geom.Misc.Clone()
	img.logger.Debug("fitsimage: image cloned", "path", img.path, "refs", img.store.Refs())

	return &clone, nil
}

// Close releases this handle. The file is closed when the last handle
// sharing it is closed. Closing a closed handle is a no-op.
func (img *Image) Close() error {
	if img.closed {
		return nil
	}
	img.closed = true
	img.logger.Debug("fitsimage: image closed", "path", img.path, "refs", img.store.Refs()-1)

	return img.store.Release()
}

// OK reports whether the handle is open and its geometry, encoding and
// storage agree with each other.
func (img *Image) OK() bool {
	if img == nil || img.closed || img.store == nil || img.store.IsDestroyed() {
		return false
	}

	shape := img.geom.Shape
	if len(shape) == 0 || len(shape) > header.MaxAxes {
		return false
	}
	for _, l := range shape {
		if l <= 0 {
			return false
		}
	}

	if img.geom.Coords == nil || img.geom.Coords.NDim() != len(shape) {
		return false
	}

	enc := img.dec.Encoding()
	if enc == nil || img.dec.ElemSize() != enc.DataType().Size() {
		return false
	}

	return lattice.Equal(img.store.Shape(), shape) && img.store.ElemSize() == img.dec.ElemSize()
}

// TempClose releases the file descriptor and cached tiles of every handle
// sharing this image. The next read reopens the file.
func (img *Image) TempClose() error {
	if img.closed {
		return errs.ErrClosed
	}

	return img.store.TempClose()
}

// Reopen reopens a temporarily closed image, verifying that the header has
// not changed. It is a no-op on an open image.
func (img *Image) Reopen() error {
	if img.closed {
		return errs.ErrClosed
	}

	return img.store.Reopen()
}

// IsOpen reports whether the file is currently open.
func (img *Image) IsOpen() bool {
	return !img.closed && img.store.IsOpen()
}

// SetMaximumCacheSize sets the cache ceiling in pixels for every handle
// sharing this image. Negative values are clipped to 0, meaning unlimited.
func (img *Image) SetMaximumCacheSize(pixels int) {
	img.store.SetMaxCacheSize(pixels)
}

// MaximumCacheSize returns the cache ceiling in pixels.
func (img *Image) MaximumCacheSize() int {
	return img.store.MaximumCacheSize()
}

// SetCacheSizeInTiles sets the cache size in tiles, clipped to the ceiling.
func (img *Image) SetCacheSizeInTiles(n int) {
	img.store.SetCacheSizeInTiles(n)
}

// CacheSizeInTiles returns the effective cache size in tiles.
func (img *Image) CacheSizeInTiles() int {
	return img.store.CacheSizeInTiles()
}

// SetCacheSizeFromPath sizes the cache for a cursor of shape sliceShape
// walking the given window along axisPath.
func (img *Image) SetCacheSizeFromPath(sliceShape, windowStart, windowLength, axisPath []int) {
	img.store.SetCacheSizeFromPath(sliceShape, windowStart, windowLength, axisPath)
}

// ClearCache drops all cached tiles.
func (img *Image) ClearCache() {
	img.store.ClearCache()
}

// CacheStats returns the tile cache statistics.
func (img *Image) CacheStats() tile.Stats {
	return img.store.Stats()
}

// ClearCacheStatistics resets the tile cache counters.
func (img *Image) ClearCacheStatistics() {
	img.store.ResetStats()
}

// ShowCacheStatistics writes a cache report to w.
func (img *Image) ShowCacheStatistics(w io.Writer) error {
	return img.store.ShowCacheStatistics(w)
}

// AdvisedMaxPixels returns the number of pixels in one tile.
func (img *Image) AdvisedMaxPixels() int {
	return img.store.AdvisedMaxPixels()
}

// NiceCursorShape returns an access shape of whole tiles within maxPixels.
func (img *Image) NiceCursorShape(maxPixels int) []int {
	return img.store.NiceCursorShape(maxPixels)
}

// TileShape returns the shape of one cached tile.
func (img *Image) TileShape() []int {
	return img.store.Layout().TileShape()
}
