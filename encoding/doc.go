// Package encoding decodes FITS pixel samples into float32 values and
// validity flags.
//
// Two on-disk encodings are supported, described by the closed Encoding
// variant:
//
//   - Float32Sample: BITPIX = -32. The value is the IEEE 754 sample itself;
//     a NaN sample is invalid.
//   - Int16Sample: BITPIX = 16. The value is raw*Scale + Offset (BSCALE and
//     BZERO); when HasBlanks is set, a raw sample equal to Magic (BLANK) is
//     invalid. The value is computed for invalid samples too.
//
// Samples are big-endian on disk. A Decoder is resolved once per opened image
// and holds fixed per-sample and bulk closures, so no type switch runs in the
// decode loop:
//
//	dec := encoding.NewDecoder(encoding.Int16Sample{Scale: 2, Offset: -1, Magic: -32768, HasBlanks: true})
//	values := make([]float32, len(raw)/dec.ElemSize())
//	dec.DecodeSlice(raw, values)
//
// Decoding never fails for any representable raw input.
package encoding
