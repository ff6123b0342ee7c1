package tile

import (
	"fmt"
	"io"
)

// Stats reports tile cache activity since the last ResetStats.
type Stats struct {
	// Requests counts slice reads served.
	Requests int64
	// Hits counts tile lookups served from the cache.
	Hits int64
	// Misses counts tile lookups that read from disk.
	Misses int64
	// BytesRead counts bytes read from disk.
	BytesRead int64
	// Evictions counts tiles dropped to respect the cache budget.
	Evictions int64

	// ResidentTiles is the number of tiles currently cached.
	ResidentTiles int
	// ResidentBytes is the memory held by cached tiles, after compression.
	ResidentBytes int64
	// RawBytes is the uncompressed size of the cached tiles.
	RawBytes int64
}

// HitRatio returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CompressionRatio returns resident / raw bytes, or 0 with an empty cache.
func (s Stats) CompressionRatio() float64 {
	if s.RawBytes == 0 {
		return 0
	}

	return float64(s.ResidentBytes) / float64(s.RawBytes)
}

// WriteTo writes a human-readable report.
func (s Stats) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w,
		"requests=%d hits=%d misses=%d hit_ratio=%.3f bytes_read=%d evictions=%d "+
			"resident_tiles=%d resident_bytes=%d raw_bytes=%d\n",
		s.Requests, s.Hits, s.Misses, s.HitRatio(), s.BytesRead, s.Evictions,
		s.ResidentTiles, s.ResidentBytes, s.RawBytes)

	return int64(n), err
}

func fmtConfig(w io.Writer, s *Store) (int, error) {
	return fmt.Fprintf(w, "tile_shape=%v tile_pixels=%d tiles=%d max_pixels=%d cache_tiles=%d state=%s\n",
		s.layout.TileShape(), s.layout.TilePixels(), s.layout.TileCount(),
		s.maxPixels, s.capacity(), s.state)
}
