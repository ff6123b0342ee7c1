package lattice

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/fitsimage/errs"
)

// Slicer selects a strided rectangular region of a lattice.
//
// Along axis i it selects Length[i] positions Start[i], Start[i]+Stride[i], ...
type Slicer struct {
	Start  []int
	Length []int
	Stride []int
}

// NewSlicer creates a slicer. A nil stride means unit stride on every axis.
// The arguments are copied.
func NewSlicer(start, length, stride []int) Slicer {
	s := Slicer{
		Start:  slices.Clone(start),
		Length: slices.Clone(length),
	}
	if stride == nil {
		s.Stride = make([]int, len(start))
		for i := range s.Stride {
			s.Stride[i] = 1
		}
	} else {
		s.Stride = slices.Clone(stride)
	}

	return s
}

// FullSlicer selects every element of shape.
func FullSlicer(shape []int) Slicer {
	return NewSlicer(make([]int, len(shape)), shape, nil)
}

// NDim returns the number of axes of the slicer.
func (s Slicer) NDim() int {
	return len(s.Start)
}

// Shape returns the shape of the selected region.
func (s Slicer) Shape() []int {
	return slices.Clone(s.Length)
}

// Count returns the number of selected elements.
func (s Slicer) Count() int {
	return Product(s.Length)
}

// Last returns the position of the last selected element on each axis.
func (s Slicer) Last() []int {
	last := make([]int, len(s.Start))
	for i := range last {
		last[i] = s.Start[i] + (s.Length[i]-1)*s.Stride[i]
	}

	return last
}

// Validate checks that the slicer fits inside shape.
//
// Every axis must have a non-negative start, a positive length and stride,
// and a last selected position below the axis length. Failures wrap
// errs.ErrBounds.
func (s Slicer) Validate(shape []int) error {
	if len(s.Start) != len(shape) || len(s.Length) != len(shape) || len(s.Stride) != len(shape) {
		return fmt.Errorf("%w: slicer has %d/%d/%d axes, image has %d",
			errs.ErrBounds, len(s.Start), len(s.Length), len(s.Stride), len(shape))
	}

	for i, l := range shape {
		start, length, stride := s.Start[i], s.Length[i], s.Stride[i]
		switch {
		case start < 0:
			return fmt.Errorf("%w: axis %d start %d is negative", errs.ErrBounds, i, start)
		case length <= 0:
			return fmt.Errorf("%w: axis %d length %d is not positive", errs.ErrBounds, i, length)
		case stride <= 0:
			return fmt.Errorf("%w: axis %d stride %d is not positive", errs.ErrBounds, i, stride)
		case start+(length-1)*stride >= l:
			return fmt.Errorf("%w: axis %d selects up to %d, axis length is %d",
				errs.ErrBounds, i, start+(length-1)*stride, l)
		}
	}

	return nil
}

// All returns an iterator over (index, position) for every selected element
// in Fortran order. The index counts from 0; the position is in the parent
// lattice's coordinates.
//
// The position slice is reused between iterations and must not be retained.
//
// Example:
//
//	for i, pos := range s.All() {
//	    out[i] = data[lattice.Offset(shape, pos)]
//	}
func (s Slicer) All() iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		n := s.Count()
		if n == 0 {
			return
		}

		pos := slices.Clone(s.Start)
		counter := make([]int, len(pos))
		for i := range n {
			if !yield(i, pos) {
				return
			}

			for ax := range counter {
				counter[ax]++
				if counter[ax] < s.Length[ax] {
					pos[ax] += s.Stride[ax]
					break
				}
				counter[ax] = 0
				pos[ax] = s.Start[ax]
			}
		}
	}
}
