// Package header reads and interprets the primary header of a FITS file.
//
// # Overview
//
// A FITS primary header is a sequence of 2880-byte blocks, each holding 36
// cards of 80 ASCII characters. The header ends with the END card; pixel data
// starts at the next block boundary.
//
//	┌──────────────────────────────────────────────┐
//	│ SIMPLE  =                    T               │ card 1, mandatory
//	│ BITPIX  =                  -32               │ sample encoding
//	│ NAXIS   =                    2               │ axis count
//	│ NAXIS1  =                  100               │ axis 0 length (fastest)
//	│ ...                                          │
//	│ END                                          │
//	├──────────────────────────────────────────────┤ block boundary
//	│ big-endian samples, axis 0 varying fastest   │
//	└──────────────────────────────────────────────┘
//
// The package works in two steps:
//
//  1. ReadHeader reads whole blocks from an io.Reader up to END and decodes
//     every card into a typed Card.
//  2. Crack turns the cards into the image Geometry (shape, coordinate system,
//     unit, beam, free-form metadata), the numeric encoding.Encoding and the
//     data Location. Crack performs no I/O.
//
// # Errors
//
// A first card other than SIMPLE = T fails with errs.ErrNotFITS. A BITPIX
// other than -32 or 16 fails with errs.ErrUnsupportedEncoding. Missing or
// malformed mandatory keywords (NAXIS, NAXISn, CRPIXn, CRVALn, CDELTn) fail
// with errs.ErrHeader.
//
// Optional cards whose values cannot be parsed are kept in the metadata record
// as raw text and listed in Header.Malformed.
package header
