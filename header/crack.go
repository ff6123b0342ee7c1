package header

import (
	"fmt"
	"math"
	"strconv"

	"github.com/arloliu/fitsimage/coords"
	"github.com/arloliu/fitsimage/encoding"
	"github.com/arloliu/fitsimage/errs"
	"github.com/arloliu/fitsimage/format"
	"github.com/arloliu/fitsimage/lattice"
)

// Crack interprets a primary header.
//
// It returns the image geometry, the numeric encoding of the samples, and the
// location of the data region. Cards it does not interpret are copied into
// Geometry.Misc; a later duplicate keyword overwrites an earlier one.
func Crack(h Header) (Geometry, encoding.Encoding, Location, error) {
	c := cracker{
		keys:     make(map[string]Card, len(h.Cards)),
		consumed: make(map[string]struct{}),
	}
	for _, card := range h.Cards {
		c.keys[card.Keyword] = card
	}
	c.consume(KeySimple, KeyExtend, KeyEnd)

	enc, err := c.encoding()
	if err != nil {
		return Geometry{}, nil, Location{}, err
	}

	shape, err := c.shape(enc.DataType().Size())
	if err != nil {
		return Geometry{}, nil, Location{}, err
	}

	sys, err := c.coordinates(len(shape))
	if err != nil {
		return Geometry{}, nil, Location{}, err
	}

	geom := Geometry{
		Shape:  shape,
		Coords: sys,
		Info:   c.info(),
		Unit:   c.optionalString(KeyBunit),
	}
	geom.Misc = c.record(h.Cards)

	loc := c.location(h.Size, lattice.Product(shape)*enc.DataType().Size())

	return geom, enc, loc, nil
}

type cracker struct {
	keys     map[string]Card
	consumed map[string]struct{}
}

func (c *cracker) consume(keywords ...string) {
	for _, k := range keywords {
		c.consumed[k] = struct{}{}
	}
}

func (c *cracker) lookup(keyword string) (Card, bool) {
	card, ok := c.keys[keyword]
	return card, ok
}

func (c *cracker) encoding() (encoding.Encoding, error) {
	c.consume(KeyBitpix)

	bitpix, err := c.requiredInt(KeyBitpix)
	if err != nil {
		return nil, err
	}

	switch format.DataTypeFromBITPIX(bitpix) {
	case format.TypeFloat32:
		return encoding.Float32Sample{}, nil
	case format.TypeInt16:
		c.consume(KeyBscale, KeyBzero, KeyBlank)
		enc := encoding.NewInt16Sample()

		if scale, ok, err := c.optionalFloat(KeyBscale); err != nil {
			return nil, err
		} else if ok {
			enc.Scale = float32(scale)
		}
		if zero, ok, err := c.optionalFloat(KeyBzero); err != nil {
			return nil, err
		} else if ok {
			enc.Offset = float32(zero)
		}

		if card, ok := c.lookup(KeyBlank); ok {
			blank, isInt := card.Value.(int64)
			if !isInt || blank < math.MinInt16 || blank > math.MaxInt16 {
				return nil, fmt.Errorf("%w: BLANK %v is not a 16-bit integer", errs.ErrHeader, card.Value)
			}
			enc.Magic = int16(blank)
			enc.HasBlanks = true
		}

		return enc, nil
	default:
		return nil, fmt.Errorf("%w: BITPIX = %d", errs.ErrUnsupportedEncoding, bitpix)
	}
}

func (c *cracker) shape(elemSize int) ([]int, error) {
	c.consume(KeyNaxis)

	naxis, err := c.requiredInt(KeyNaxis)
	if err != nil {
		return nil, err
	}
	if naxis < 1 || naxis > MaxAxes {
		return nil, fmt.Errorf("%w: NAXIS = %d, want 1..%d", errs.ErrHeader, naxis, MaxAxes)
	}

	shape := make([]int, naxis)
	for i := range shape {
		key := indexed(KeyNaxis, i)
		c.consume(key)

		l, err := c.requiredInt(key)
		if err != nil {
			return nil, err
		}
		if l <= 0 {
			return nil, fmt.Errorf("%w: %s = %d must be positive", errs.ErrHeader, key, l)
		}
		if l > math.MaxInt {
			return nil, fmt.Errorf("%w: %s = %d is too large", errs.ErrHeader, key, l)
		}
		shape[i] = int(l)
	}

	if _, ok := lattice.ByteSize(shape, elemSize); !ok {
		return nil, fmt.Errorf("%w: data of shape %v does not fit in memory addressing", errs.ErrHeader, shape)
	}

	return shape, nil
}

func (c *cracker) coordinates(naxis int) (*coords.System, error) {
	axes := make([]coords.Axis, naxis)
	for i := range axes {
		crpix, crval, cdelt := indexed("CRPIX", i), indexed("CRVAL", i), indexed("CDELT", i)
		ctype, cunit := indexed("CTYPE", i), indexed("CUNIT", i)
		c.consume(crpix, crval, cdelt, ctype, cunit)

		refPixel, err := c.requiredFloat(crpix)
		if err != nil {
			return nil, err
		}
		refValue, err := c.requiredFloat(crval)
		if err != nil {
			return nil, err
		}
		increment, err := c.requiredFloat(cdelt)
		if err != nil {
			return nil, err
		}
		if increment == 0 {
			return nil, fmt.Errorf("%w: %s is zero", errs.ErrHeader, cdelt)
		}

		axes[i] = coords.Axis{
			Type:      c.optionalString(ctype),
			Unit:      c.optionalString(cunit),
			RefPixel:  refPixel - 1,
			RefValue:  refValue,
			Increment: increment,
		}
	}

	return coords.NewSystem(axes)
}

func (c *cracker) info() ImageInfo {
	c.consume(KeyObject, KeyBunit, KeyBmaj, KeyBmin, KeyBpa)

	info := ImageInfo{Object: c.optionalString(KeyObject)}

	bmaj, okMaj, errMaj := c.optionalFloat(KeyBmaj)
	bmin, okMin, errMin := c.optionalFloat(KeyBmin)
	if okMaj && okMin && errMaj == nil && errMin == nil {
		bpa, _, _ := c.optionalFloat(KeyBpa)
		info.Beam = Beam{Major: bmaj, Minor: bmin, PositionAngle: bpa}
		info.HasBeam = true
	}

	return info
}

func (c *cracker) record(cards []Card) Record {
	rec := Record{}
	for _, card := range cards {
		if _, ok := c.consumed[card.Keyword]; ok {
			continue
		}

		switch card.Keyword {
		case "":
			continue
		case KeyComment, KeyHistory:
			lines, _ := rec[card.Keyword].([]string)
			text, _ := card.Value.(string)
			rec[card.Keyword] = append(lines, text)
		default:
			rec[card.Keyword] = card.Value
		}
	}

	return rec
}

func (c *cracker) location(headerSize int64, dataBytes int) Location {
	offset := (headerSize + BlockSize - 1) / BlockSize * BlockSize

	return Location{
		Offset:      offset,
		RecordSize:  BlockSize,
		RecordCount: (dataBytes + BlockSize - 1) / BlockSize,
	}
}

func (c *cracker) requiredInt(keyword string) (int64, error) {
	card, ok := c.lookup(keyword)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", errs.ErrHeader, keyword)
	}

	switch v := card.Value.(type) {
	case int64:
		return v, nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < math.MaxInt32 {
			return int64(v), nil
		}
	}

	return 0, fmt.Errorf("%w: %s = %v is not an integer", errs.ErrHeader, keyword, card.Value)
}

func (c *cracker) requiredFloat(keyword string) (float64, error) {
	v, ok, err := c.optionalFloat(keyword)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", errs.ErrHeader, keyword)
	}

	return v, nil
}

func (c *cracker) optionalFloat(keyword string) (float64, bool, error) {
	card, ok := c.lookup(keyword)
	if !ok {
		return 0, false, nil
	}

	switch v := card.Value.(type) {
	case float64:
		return v, true, nil
	case int64:
		return float64(v), true, nil
	default:
		return 0, false, fmt.Errorf("%w: %s = %v is not numeric", errs.ErrHeader, keyword, card.Value)
	}
}

func (c *cracker) optionalString(keyword string) string {
	card, ok := c.lookup(keyword)
	if !ok || card.Value == nil {
		return ""
	}
	if s, ok := card.Value.(string); ok {
		return s
	}

	return fmt.Sprint(card.Value)
}

// indexed returns the keyword for 0-based axis i, e.g. indexed("NAXIS", 0) is NAXIS1.
func indexed(prefix string, i int) string {
	return prefix + strconv.Itoa(i+1)
}
