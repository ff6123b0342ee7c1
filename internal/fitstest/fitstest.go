// Package fitstest builds synthetic FITS files for tests.
package fitstest

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"
)

const blockSize = 2880

// Builder assembles a primary header card by card.
type Builder struct {
	cards []string
	keys  []string
}

// NewImage starts a header for an image of the given BITPIX and shape, with
// a linear coordinate system on every axis (CRPIX=1, CRVAL=0, CDELT=1).
func NewImage(bitpix int, shape ...int) *Builder {
	b := &Builder{}
	b.Set("SIMPLE", true)
	b.Set("BITPIX", bitpix)
	b.Set("NAXIS", len(shape))
	for i, l := range shape {
		b.Set("NAXIS"+strconv.Itoa(i+1), l)
	}
	for i := range shape {
		n := strconv.Itoa(i + 1)
		b.Set("CTYPE"+n, fmt.Sprintf("AXIS%d", i+1))
		b.Set("CRPIX"+n, 1.0)
		b.Set("CRVAL"+n, 0.0)
		b.Set("CDELT"+n, 1.0)
	}

	return b
}

// Set appends a value card.
func (b *Builder) Set(key string, value any) *Builder {
	b.cards = append(b.cards, FormatCard(key, value, ""))
	b.keys = append(b.keys, key)

	return b
}

// Raw appends a card verbatim, padded or truncated to 80 bytes.
func (b *Builder) Raw(card string) *Builder {
	b.cards = append(b.cards, pad(card))
	b.keys = append(b.keys, strings.TrimRight(pad(card)[:8], " "))

	return b
}

// Without removes every card with the given keyword.
func (b *Builder) Without(key string) *Builder {
	for i := len(b.keys) - 1; i >= 0; i-- {
		if b.keys[i] == key {
			b.keys = slices.Delete(b.keys, i, i+1)
			b.cards = slices.Delete(b.cards, i, i+1)
		}
	}

	return b
}

// Header returns the header blocks, terminated by END and padded with spaces.
func (b *Builder) Header() []byte {
	text := strings.Join(b.cards, "") + pad("END")
	if rem := len(text) % blockSize; rem != 0 {
		text += strings.Repeat(" ", blockSize-rem)
	}

	return []byte(text)
}

// Write writes the header followed by data, zero-padded to a whole block,
// into a fresh file under t.TempDir() and returns its path.
func (b *Builder) Write(t testing.TB, data []byte) string {
	t.Helper()

	return WriteFile(t, b.Header(), data)
}

// WriteFile writes header and data into a fresh file under t.TempDir().
func WriteFile(t testing.TB, header []byte, data []byte) string {
	t.Helper()

	buf := slices.Concat(header, data)
	if rem := len(data) % blockSize; rem != 0 {
		buf = append(buf, make([]byte, blockSize-rem)...)
	}

	path := filepath.Join(t.TempDir(), "image.fits")
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatalf("write FITS file: %v", err)
	}

	return path
}

// FormatCard renders one 80-byte value card. Strings are quoted, numbers and
// booleans are right-aligned in columns 11-30, nil leaves the value empty.
// COMMENT and HISTORY render their value as free text.
func FormatCard(key string, value any, comment string) string {
	if key == "COMMENT" || key == "HISTORY" {
		return pad(fmt.Sprintf("%-8s%v", key, value))
	}

	var field string
	switch v := value.(type) {
	case nil:
		field = ""
	case bool:
		field = fmt.Sprintf("%20s", map[bool]string{true: "T", false: "F"}[v])
	case int:
		field = fmt.Sprintf("%20d", v)
	case int64:
		field = fmt.Sprintf("%20d", v)
	case float64:
		s := strconv.FormatFloat(v, 'G', -1, 64)
		if !strings.ContainsAny(s, ".EN") {
			s += ".0"
		}
		field = fmt.Sprintf("%20s", s)
	case string:
		field = fmt.Sprintf("'%-8s'", strings.ReplaceAll(v, "'", "''"))
	default:
		field = fmt.Sprint(v)
	}

	card := fmt.Sprintf("%-8s= %s", key, field)
	if comment != "" {
		card += " / " + comment
	}

	return pad(card)
}

// Int16Data encodes samples as big-endian int16.
func Int16Data(values []int16) []byte {
	buf := make([]byte, 0, len(values)*2)
	for _, v := range values {
		buf = binary.BigEndian.AppendUint16(buf, uint16(v))
	}

	return buf
}

// Float32Data encodes samples as big-endian IEEE 754 float32.
func Float32Data(values []float32) []byte {
	buf := make([]byte, 0, len(values)*4)
	for _, v := range values {
		buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(v))
	}

	return buf
}

// Int16Ramp returns n samples where sample i is int16(i % 30000).
func Int16Ramp(n int) []int16 {
	values := make([]int16, n)
	for i := range values {
		values[i] = int16(i % 30000)
	}

	return values
}

// Float32Ramp returns n samples where sample i is float32(i) * 0.5.
func Float32Ramp(n int) []float32 {
	values := make([]float32, n)
	for i := range values {
		values[i] = float32(i) * 0.5
	}

	return values
}

func pad(card string) string {
	if len(card) >= 80 {
		return card[:80]
	}

	return card + strings.Repeat(" ", 80-len(card))
}
