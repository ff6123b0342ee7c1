package header

import (
	"maps"
	"slices"

	"github.com/arloliu/fitsimage/coords"
)

// Beam is the restoring beam of a synthesized image, in header units
// (degrees for BMAJ and BMIN, degrees for BPA).
type Beam struct {
	Major         float64
	Minor         float64
	PositionAngle float64
}

// ImageInfo holds descriptive attributes that do not affect pixel access.
type ImageInfo struct {
	Object  string
	Beam    Beam
	HasBeam bool
}

// Record is the free-form metadata of an image: every header card not
// interpreted by Crack. COMMENT and HISTORY cards accumulate as []string.
type Record map[string]any

// Clone returns a copy of r. Accumulated commentary slices are copied too.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}

	out := maps.Clone(r)
	for k, v := range out {
		if lines, ok := v.([]string); ok {
			out[k] = slices.Clone(lines)
		}
	}

	return out
}

// Geometry is the logical description of the image.
type Geometry struct {
	// Shape holds the axis lengths, axis 0 first (NAXIS1).
	Shape  []int
	Coords *coords.System
	Info   ImageInfo
	Unit   string
	Misc   Record
}

// Location places the data region in the file.
type Location struct {
	// Offset is the byte offset of the first sample.
	Offset int64
	// RecordSize is the FITS record size, always BlockSize.
	RecordSize int
	// RecordCount is the number of records the data region occupies.
	RecordCount int
}

// DataEnd returns the byte offset just past the last sample of a data region
// of n samples of elemSize bytes.
func (l Location) DataEnd(n int, elemSize int) int64 {
	return l.Offset + int64(n)*int64(elemSize)
}
