package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/fitsimage/format"
)

// Encoding describes how raw samples of an image map to values and validity.
//
// The set of implementations is closed: Float32Sample and Int16Sample.
type Encoding interface {
	// DataType returns the on-disk sample type.
	DataType() format.DataType
	// NoBlanks reports whether every sample is statically known to be valid.
	NoBlanks() bool

	String() string

	encoding()
}

// Float32Sample is the BITPIX = -32 encoding.
type Float32Sample struct{}

var _ Encoding = Float32Sample{}

// DataType returns format.TypeFloat32.
func (Float32Sample) DataType() format.DataType { return format.TypeFloat32 }

// NoBlanks is always false: any float sample may be NaN.
func (Float32Sample) NoBlanks() bool { return false }

// String returns the encoding name.
func (Float32Sample) String() string { return "Float32Sample" }

func (Float32Sample) encoding() {}

// Decode decodes one float sample given its IEEE 754 bits.
// Invalid samples return their NaN value unchanged.
func (Float32Sample) Decode(bits uint32) (float32, bool) {
	v := math.Float32frombits(bits)

	return v, !math.IsNaN(float64(v))
}

// Int16Sample is the BITPIX = 16 encoding with linear scaling.
type Int16Sample struct {
	Scale     float32 // BSCALE, 1 when absent
	Offset    float32 // BZERO, 0 when absent
	Magic     int16   // BLANK
	HasBlanks bool    // BLANK was declared
}

var _ Encoding = Int16Sample{}

// NewInt16Sample returns an Int16Sample with identity scaling and no blanks.
func NewInt16Sample() Int16Sample {
	return Int16Sample{Scale: 1}
}

// DataType returns format.TypeInt16.
func (Int16Sample) DataType() format.DataType { return format.TypeInt16 }

// NoBlanks reports whether BLANK was not declared.
func (e Int16Sample) NoBlanks() bool { return !e.HasBlanks }

// String returns the encoding with its scaling and BLANK value.
func (e Int16Sample) String() string {
	if e.HasBlanks {
		return fmt.Sprintf("Int16Sample{scale=%g, offset=%g, blank=%d}", e.Scale, e.Offset, e.Magic)
	}

	return fmt.Sprintf("Int16Sample{scale=%g, offset=%g}", e.Scale, e.Offset)
}

func (Int16Sample) encoding() {}

// Decode decodes one raw integer sample.
func (e Int16Sample) Decode(raw int16) (float32, bool) {
	return float32(raw)*e.Scale + e.Offset, !e.HasBlanks || raw != e.Magic
}
