package encoding

import (
	"iter"
	"math"

	"github.com/arloliu/fitsimage/endian"
	"github.com/arloliu/fitsimage/format"
)

// Decoder decodes raw big-endian sample bytes of one encoding.
//
// It is stateless after construction and returned by value; copies are
// cheap and safe for concurrent use.
type Decoder struct {
	enc      Encoding
	elemSize int
	one      func(raw []byte) (float32, bool)
	bulk     func(raw []byte, dst []float32)
	valid    func(raw []byte, dst []bool)
}

// NewDecoder resolves enc to fixed decode closures.
// A nil encoding decodes as Float32Sample.
func NewDecoder(enc Encoding) Decoder {
	engine := endian.GetFITSEngine()

	switch e := enc.(type) {
	case *Int16Sample:
		return NewDecoder(*e)
	case *Float32Sample:
		return NewDecoder(Float32Sample{})
	case Int16Sample:
		return Decoder{
			enc:      e,
			elemSize: 2,
			one: func(raw []byte) (float32, bool) {
				return e.Decode(int16(engine.Uint16(raw)))
			},
			bulk: func(raw []byte, dst []float32) {
				scale, offset := e.Scale, e.Offset
				for i := range dst {
					dst[i] = float32(int16(engine.Uint16(raw[i*2:])))*scale + offset
				}
			},
			valid: int16Validity(e, engine),
		}
	default:
		f := Float32Sample{}

		return Decoder{
			enc:      f,
			elemSize: 4,
			one: func(raw []byte) (float32, bool) {
				return f.Decode(engine.Uint32(raw))
			},
			bulk: func(raw []byte, dst []float32) {
				for i := range dst {
					dst[i] = math.Float32frombits(engine.Uint32(raw[i*4:]))
				}
			},
			valid: func(raw []byte, dst []bool) {
				for i := range dst {
					v := math.Float32frombits(engine.Uint32(raw[i*4:]))
					dst[i] = !math.IsNaN(float64(v))
				}
			},
		}
	}
}

func int16Validity(e Int16Sample, engine endian.EndianEngine) func(raw []byte, dst []bool) {
	if !e.HasBlanks {
		return func(_ []byte, dst []bool) {
			for i := range dst {
				dst[i] = true
			}
		}
	}

	magic := uint16(e.Magic)

	return func(raw []byte, dst []bool) {
		for i := range dst {
			dst[i] = engine.Uint16(raw[i*2:]) != magic
		}
	}
}

// Encoding returns the encoding the decoder was built for.
func (d Decoder) Encoding() Encoding {
	return d.enc
}

// DataType returns the on-disk sample type.
func (d Decoder) DataType() format.DataType {
	return d.enc.DataType()
}

// ElemSize returns the number of bytes of one raw sample.
func (d Decoder) ElemSize() int {
	return d.elemSize
}

// Count returns the number of whole samples in raw.
func (d Decoder) Count(raw []byte) int {
	return len(raw) / d.elemSize
}

// Decode decodes the first sample of raw. raw must hold at least ElemSize bytes.
func (d Decoder) Decode(raw []byte) (float32, bool) {
	return d.one(raw)
}

// DecodeSlice decodes min(len(dst), Count(raw)) samples into dst and returns
// the number decoded.
func (d Decoder) DecodeSlice(raw []byte, dst []float32) int {
	n := min(len(dst), d.Count(raw))
	d.bulk(raw, dst[:n])

	return n
}

// ValidSlice writes the validity of min(len(dst), Count(raw)) samples into
// dst and returns the number written.
func (d Decoder) ValidSlice(raw []byte, dst []bool) int {
	n := min(len(dst), d.Count(raw))
	d.valid(raw, dst[:n])

	return n
}

// All returns an iterator over (value, valid) for every sample in raw.
//
// Example:
//
//	for v, ok := range dec.All(raw) {
//	    if ok {
//	        sum += v
//	    }
//	}
func (d Decoder) All(raw []byte) iter.Seq2[float32, bool] {
	return func(yield func(float32, bool) bool) {
		for i := range d.Count(raw) {
			if !yield(d.one(raw[i*d.elemSize:])) {
				return
			}
		}
	}
}
