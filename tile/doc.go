// Package tile maps slice requests on a FITS data region onto cached,
// contiguous tiles of the file.
//
// # Tiling
//
// FITS data is stored in Fortran order, so a tile is chosen as a contiguous
// byte range: it spans the full extent of axes 0..k-1, a block of b positions
// along axis k, and a single position on every axis beyond k. The split axis
// k and block b are picked so that a tile holds about DefaultTilePixels
// samples (or the tile hint passed to Open). Each tile is fetched with exactly
// one ReadAt; the last block along axis k may be shorter than b.
//
//	shape [512, 512, 64], target 32768 pixels
//	  → k = 1, b = 64: tile shape [512, 64, 1], 8 blocks per plane
//
// # Cache
//
// Tiles are held in a FIFO cache whose budget is expressed in pixels
// (SetMaxCacheSize, 0 meaning unlimited) and in tiles (SetCacheSizeInTiles,
// SetCacheSizeFromPath). Resident tiles may be kept compressed with any codec
// from the compress package; the budget counts pixels regardless.
//
// # Lifecycle
//
// A Store is shared by every clone of an image. Retain and Release count the
// holders; the last Release closes the file. TempClose releases the file
// descriptor and the cache while keeping the configuration, and any read on
// a temporarily closed store reopens it first. Reopen verifies the header
// fingerprint, if one was given, so a file replaced in the meantime is
// detected.
//
// A Store performs no internal locking. Clones sharing a Store must not be
// used from multiple goroutines at once.
package tile
