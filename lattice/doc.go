// Package lattice provides the N-dimensional shape and slicing primitives
// shared by the tile store, the mask lattice and the image facade.
//
// All linear indices are in Fortran order: axis 0 varies fastest. This is the
// order in which FITS stores pixel data on disk and the order in which every
// slice buffer returned by this module is laid out.
//
// A Slicer selects a strided rectangular sub-region:
//
//	// Every second pixel of a 10x10 region starting at (5, 20).
//	s := lattice.NewSlicer([]int{5, 20}, []int{10, 10}, []int{2, 2})
//	if err := s.Validate(img.Shape()); err != nil {
//	    return err // wraps errs.ErrBounds
//	}
//	for i, pos := range s.All() {
//	    ...
//	}
package lattice
