// Package errs defines the sentinel errors returned by fitsimage packages.
//
// Errors returned by this module wrap one of these sentinels with additional
// context, so callers should test them with errors.Is:
//
//	img, err := fitsimage.Open("in.fits")
//	if errors.Is(err, errs.ErrUnsupportedEncoding) {
//	    // BITPIX other than -32 or 16
//	}
package errs

import (
	"errors"
	"fmt"
)

// Construction errors. These are fatal: no partially built image is returned.
var (
	// ErrOpen is returned when the file is missing, unreadable, or its size is
	// inconsistent with the declared data shape.
	ErrOpen = errors.New("cannot open FITS image")
	// ErrUnsupportedEncoding is returned when BITPIX names an encoding other
	// than 32-bit float or 16-bit integer.
	ErrUnsupportedEncoding = errors.New("unsupported FITS data encoding")
	// ErrHeader is returned when a mandatory geometry or coordinate keyword is
	// missing or malformed.
	ErrHeader = errors.New("invalid FITS header")
	// ErrNotFITS is returned when the first header card is not SIMPLE = T.
	ErrNotFITS = fmt.Errorf("%w: not a FITS primary header", ErrHeader)
)

// Per-call errors. These never invalidate the image.
var (
	// ErrBounds is returned when a slice request falls outside the image shape.
	ErrBounds = errors.New("slice out of bounds")
	// ErrNotWritable is returned by every request that would mutate pixel
	// data, the mask, or the file on disk.
	ErrNotWritable = errors.New("FITS image is not writable")
	// ErrClosed is returned when an image handle is used after Close.
	ErrClosed = errors.New("image handle is closed")
)
