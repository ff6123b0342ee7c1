package hash

import "github.com/cespare/xxhash/v2"

// Fingerprint computes the xxHash64 of raw header bytes.
//
// The tile store records the fingerprint of the header blocks at open time
// and recomputes it on reopen to detect a file replaced while temporarily
// closed.
func Fingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}
