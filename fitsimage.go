// Package fitsimage provides read-only, randomly sliceable access to the
// primary image of a FITS file.
//
// An Image exposes the data as an N-dimensional float32 array together with
// a validity mask synthesized on the fly from the format's magic values (NaN
// for 32-bit float data, BLANK for 16-bit integer data). Pixels are read
// through a tiled cache whose budget can be tuned per image.
//
// # Core Features
//
//   - BITPIX -32 and 16 with linear BSCALE/BZERO scaling
//   - Per-slice masks, never a whole-image mask
//   - FIFO tile cache with optional compressed residency (S2, LZ4, Zstd)
//   - Reference-semantics clones sharing one file handle and cache
//   - Temporary close and transparent reopen to bound open descriptors
//
// # Basic Usage
//
//	img, err := fitsimage.Open("cube.fits", fitsimage.WithMaxCacheSize(1<<22))
//	if err != nil {
//	    return err
//	}
//	defer img.Close()
//
//	// A 64x64 box of the first plane.
//	s := lattice.NewSlicer([]int{0, 0, 0}, []int{64, 64, 1}, nil)
//	values, valid, err := img.GetSlice(s)
//	if err != nil {
//	    return err
//	}
//	for i, v := range values {
//	    if valid[i] {
//	        sum += v
//	    }
//	}
//
// # Read-only
//
// Every request that would modify pixels, the mask, or the file fails with
// errs.ErrNotWritable. Unit and metadata can be overridden with SetUnit and
// SetMiscInfo, but such edits live only in the handle that made them and are
// never written back.
package fitsimage

import (
	"fmt"
	"os"

	"github.com/arloliu/fitsimage/encoding"
	"github.com/arloliu/fitsimage/errs"
	"github.com/arloliu/fitsimage/header"
	"github.com/arloliu/fitsimage/internal/hash"
	"github.com/arloliu/fitsimage/internal/options"
	"github.com/arloliu/fitsimage/tile"
)

// Open opens the primary image of the FITS file at path.
//
// Errors wrap errs.ErrOpen (file missing, unreadable, or too short),
// errs.ErrUnsupportedEncoding (BITPIX other than -32 or 16) or errs.ErrHeader
// (missing or malformed mandatory keywords). No image is returned on error.
func Open(path string, opts ...Option) (*Image, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpen, path, err)
	}

	h, err := readHeader(path)
	if err != nil {
		return nil, err
	}

	geom, enc, loc, err := header.Crack(h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for _, key := range h.Malformed {
		cfg.logger.Warn("fitsimage: keeping unparsable header value as text", "path", path, "keyword", key)
	}

	dec := encoding.NewDecoder(enc)
	store, err := tile.Open(path, loc, geom.Shape, dec.ElemSize(),
		tile.WithTileHint(cfg.tileHint),
		tile.WithMaxCacheSize(cfg.maxCacheSize),
		tile.WithCompression(cfg.compression),
		tile.WithLogger(cfg.logger),
		tile.WithFingerprint(hash.Fingerprint(h.Raw)),
	)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("fitsimage: image opened",
		"path", path,
		"shape", geom.Shape,
		"encoding", enc.String(),
		"mask_policy", cfg.maskPolicy.String())

	return &Image{
		path:   path,
		policy: cfg.maskPolicy,
		store:  store,
		dec:    dec,
		geom:   geom,
		logger: cfg.logger,
	}, nil
}

func readHeader(path string) (header.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return header.Header{}, fmt.Errorf("%w: %w", errs.ErrOpen, err)
	}
	defer f.Close()

	h, err := header.ReadHeader(f)
	if err != nil {
		return header.Header{}, fmt.Errorf("%s: %w", path, err)
	}

	return h, nil
}

// ImageType is the value returned by Image.ImageType.
const ImageType = "FITSImage"
