package tile

import (
	"slices"

	"github.com/arloliu/fitsimage/lattice"
)

// DefaultTilePixels is the target tile size when no tile hint is given.
const DefaultTilePixels = 32768

// Layout describes how a data region of a given shape is cut into tiles.
type Layout struct {
	shape []int
	// axis is the split axis k.
	axis int
	// block is the tile extent along the split axis.
	block int
	// inner is the number of samples in one position of the split axis.
	inner int
	// blocks is the number of tiles along the split axis.
	blocks int
}

// NewLayout computes the tiling of shape for a target tile size in pixels.
func NewLayout(shape []int, target int) Layout {
	if target <= 0 {
		target = DefaultTilePixels
	}

	l := Layout{shape: slices.Clone(shape), inner: 1}
	if len(shape) == 0 {
		l.block, l.blocks = 1, 1
		return l
	}

	l.axis = len(shape) - 1
	for i, n := range shape {
		if l.inner*n > target {
			l.axis = i
			break
		}
		if i == len(shape)-1 {
			break
		}
		l.inner *= n
	}

	n := shape[l.axis]
	l.block = min(n, max(1, target/l.inner))
	l.blocks = (n + l.block - 1) / l.block

	return l
}

// Shape returns the shape of the tiled region.
func (l Layout) Shape() []int {
	return slices.Clone(l.shape)
}

// TileShape returns the nominal tile shape.
func (l Layout) TileShape() []int {
	ts := make([]int, len(l.shape))
	for i := range ts {
		switch {
		case i < l.axis:
			ts[i] = l.shape[i]
		case i == l.axis:
			ts[i] = l.block
		default:
			ts[i] = 1
		}
	}

	return ts
}

// TilePixels returns the number of samples in a full tile.
func (l Layout) TilePixels() int {
	return l.inner * l.block
}

// TileCount returns the number of tiles covering the region.
func (l Layout) TileCount() int {
	outer := 1
	for _, n := range l.shape[min(l.axis+1, len(l.shape)):] {
		outer *= n
	}

	return l.blocks * outer
}

// Locate returns the tile holding sample index idx (Fortran order), the
// first sample index of that tile, and its length in samples.
func (l Layout) Locate(idx int) (id int, start int, length int) {
	plane := l.inner * l.shapeAt(l.axis)
	outer := idx / plane
	within := idx % plane

	full := l.inner * l.block
	j := within / full

	id = j + l.blocks*outer
	start = outer*plane + j*full
	length = min(full, plane-j*full)

	return id, start, length
}

// Span returns the first sample index and length in samples of tile id.
func (l Layout) Span(id int) (start int, length int) {
	plane := l.inner * l.shapeAt(l.axis)
	outer := id / l.blocks
	j := id % l.blocks
	full := l.inner * l.block

	return outer*plane + j*full, min(full, plane-j*full)
}

func (l Layout) shapeAt(axis int) int {
	if len(l.shape) == 0 {
		return 1
	}

	return l.shape[axis]
}

// tilesSpanned returns how many tiles of extent ext cover [start, start+length).
func tilesSpanned(start, length, ext int) int {
	if length <= 0 || ext <= 0 {
		return 1
	}

	return (start+length-1)/ext - start/ext + 1
}

// NiceCursorShape returns an access shape made of whole tiles holding at most
// maxPixels samples, but never less than one tile. It grows the slowest
// varying axis first.
func (l Layout) NiceCursorShape(maxPixels int) []int {
	cursor := l.TileShape()
	pixels := lattice.Product(cursor)
	if pixels == 0 {
		return cursor
	}

	for ax := len(cursor) - 1; ax >= l.axis && ax >= 0; ax-- {
		factor := maxPixels / pixels
		if factor <= 1 {
			break
		}

		grown := min(l.shape[ax], cursor[ax]*factor)
		pixels = pixels / cursor[ax] * grown
		cursor[ax] = grown
	}

	return cursor
}
