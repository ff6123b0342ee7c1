package mask

import (
	"fmt"
	"slices"

	"github.com/arloliu/fitsimage/errs"
	"github.com/arloliu/fitsimage/lattice"
)

// Source supplies mask slices for a lattice. *fitsimage.Image implements it.
type Source interface {
	Shape() []int
	GetMaskSlice(s lattice.Slicer) ([]bool, error)
}

// Lattice is a read-only view of an image's pixel mask.
//
// Every GetSlice call synthesizes the requested region from the underlying
// image; nothing is retained between calls.
type Lattice struct {
	src   Source
	shape []int
}

// NewLattice creates a mask view over src.
func NewLattice(src Source) *Lattice {
	return &Lattice{src: src, shape: slices.Clone(src.Shape())}
}

// Shape returns the shape of the mask, which equals the image shape.
func (l *Lattice) Shape() []int {
	return slices.Clone(l.shape)
}

// NDim returns the number of axes.
func (l *Lattice) NDim() int {
	return len(l.shape)
}

// GetSlice returns the validity of the selected region in Fortran order.
func (l *Lattice) GetSlice(s lattice.Slicer) ([]bool, error) {
	return l.src.GetMaskSlice(s)
}

// PutSlice always fails: FITS pixel masks are derived from the data.
func (l *Lattice) PutSlice(_ lattice.Slicer, _ []bool) error {
	return fmt.Errorf("%w: pixel mask is derived from magic values", errs.ErrNotWritable)
}

// IsWritable is always false.
func (l *Lattice) IsWritable() bool {
	return false
}
