package lattice

import "math"

// Product returns the number of elements in shape. An empty shape has one
// element, a shape with any zero axis has none.
func Product(shape []int) int {
	n := 1
	for _, l := range shape {
		n *= l
	}

	return n
}

// ByteSize returns the number of bytes held by shape samples of elemSize
// bytes. It reports false when any length is negative or the size does not
// fit in an int.
func ByteSize(shape []int, elemSize int) (int, bool) {
	if elemSize < 0 {
		return 0, false
	}

	n := elemSize
	for _, l := range shape {
		if l < 0 {
			return 0, false
		}
		if l != 0 && n > math.MaxInt/l {
			return 0, false
		}
		n *= l
	}

	return n, true
}

// Strides returns the Fortran-order element strides of shape.
func Strides(shape []int) []int {
	strides := make([]int, len(shape))
	step := 1
	for i, l := range shape {
		strides[i] = step
		step *= l
	}

	return strides
}

// Offset returns the linear Fortran-order index of pos within shape.
// pos must lie inside shape.
func Offset(shape []int, pos []int) int {
	off := 0
	step := 1
	for i, l := range shape {
		off += pos[i] * step
		step *= l
	}

	return off
}

// Equal reports whether two shapes have identical axis lengths.
func Equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
