// Package mask synthesizes pixel validity masks from magic-value samples.
//
// FITS images carry no stored mask: a pixel is invalid when its raw sample is
// NaN (float data) or equal to BLANK (integer data). Masks are computed per
// requested slice from the raw bytes and are never cached or materialized for
// the whole image.
package mask

import (
	"github.com/arloliu/fitsimage/encoding"
)

// AllValid reports whether enc guarantees that no sample is blanked, so a
// mask can be produced without reading the samples.
func AllValid(enc encoding.Encoding) bool {
	return enc.NoBlanks()
}

// Slice returns the validity of every sample in raw, which holds big-endian
// samples of enc. The result has len(raw)/elemSize entries.
func Slice(raw []byte, enc encoding.Encoding) []bool {
	return FromDecoder(raw, encoding.NewDecoder(enc))
}

// FromDecoder is Slice with an already resolved decoder.
func FromDecoder(raw []byte, dec encoding.Decoder) []bool {
	n := dec.Count(raw)
	if AllValid(dec.Encoding()) {
		return Full(n)
	}

	valid := make([]bool, n)
	dec.ValidSlice(raw, valid)

	return valid
}

// Full returns an all-true mask of n entries.
func Full(n int) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = true
	}

	return valid
}
