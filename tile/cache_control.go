package tile

import (
	"io"
	"slices"
)

// capacity returns the cache capacity in tiles, 0 meaning unlimited.
func (s *Store) capacity() int {
	maxTiles := 0
	if s.maxPixels > 0 {
		maxTiles = max(1, s.maxPixels/s.layout.TilePixels())
	}

	switch {
	case s.tilesWanted == 0:
		return maxTiles
	case maxTiles == 0:
		return s.tilesWanted
	default:
		return min(s.tilesWanted, maxTiles)
	}
}

func (s *Store) applyCapacity() {
	before := s.cache.evictions
	s.cache.resize(s.capacity())
	s.stats.Evictions += s.cache.evictions - before
}

// SetMaxCacheSize sets the cache ceiling in pixels. Negative values are
// clipped to 0, which means unlimited. Resident tiles beyond the new ceiling
// are evicted, but at least one tile is always kept.
func (s *Store) SetMaxCacheSize(pixels int) {
	s.maxPixels = max(0, pixels)
	s.applyCapacity()
	s.logger.Debug("tile: max cache size set",
		"path", s.path, "pixels", s.maxPixels, "tiles", s.capacity())
}

// MaximumCacheSize returns the cache ceiling in pixels, 0 meaning unlimited.
func (s *Store) MaximumCacheSize() int {
	return s.maxPixels
}

// SetCacheSizeInTiles sets the cache size in tiles, clipped to the ceiling.
// Zero or a negative value restores the size implied by the ceiling alone.
func (s *Store) SetCacheSizeInTiles(n int) {
	s.tilesWanted = max(0, n)
	s.applyCapacity()
	s.logger.Debug("tile: cache size set",
		"path", s.path, "requested_tiles", s.tilesWanted, "tiles", s.capacity())
}

// CacheSizeInTiles returns the effective cache size in tiles, 0 meaning
// unlimited.
func (s *Store) CacheSizeInTiles() int {
	return s.capacity()
}

// SetCacheSizeFromPath sizes the cache for a cursor of shape sliceShape that
// walks the window [windowStart, windowStart+windowLength) along the axes in
// axisPath order, fastest first.
//
// The cache keeps every tile along the window on the first path axis and the
// tiles one slice spans on every other axis, so no tile is read twice during
// the walk. The result is clipped to the ceiling. Inconsistent arguments
// leave the cache size unchanged.
func (s *Store) SetCacheSizeFromPath(sliceShape, windowStart, windowLength, axisPath []int) {
	shape := s.layout.shape
	nd := len(shape)
	if len(sliceShape) != nd || len(windowStart) != nd || len(windowLength) != nd {
		s.logger.Debug("tile: ignoring cache path with mismatched rank", "path", s.path)
		return
	}

	path := slices.Clone(axisPath)
	if len(path) == 0 {
		path = make([]int, nd)
		for i := range path {
			path[i] = i
		}
	}
	if path[0] < 0 || path[0] >= nd {
		s.logger.Debug("tile: ignoring cache path with invalid axis", "path", s.path, "axis", path[0])
		return
	}

	ext := s.layout.TileShape()
	tiles := 1
	for ax := range nd {
		start := max(0, windowStart[ax])
		length := min(sliceShape[ax], shape[ax])
		if ax == path[0] {
			length = min(windowLength[ax], shape[ax]-start)
		}
		tiles *= tilesSpanned(start, length, ext[ax])
	}

	s.SetCacheSizeInTiles(tiles)
}

// ClearCache drops every cached tile. The configured sizes are kept.
func (s *Store) ClearCache() {
	s.cache.clear()
}

// Stats returns the cache statistics.
func (s *Store) Stats() Stats {
	st := s.stats
	st.ResidentTiles = s.cache.len()
	st.ResidentBytes = s.cache.residentBytes
	st.RawBytes = s.cache.rawBytes

	return st
}

// ResetStats zeroes the activity counters.
func (s *Store) ResetStats() {
	s.stats = Stats{}
}

// ShowCacheStatistics writes a report of the cache configuration and
// statistics to w.
func (s *Store) ShowCacheStatistics(w io.Writer) error {
	if _, err := io.WriteString(w, "tile cache for "+s.path+"\n"); err != nil {
		return err
	}
	if _, err := fmtConfig(w, s); err != nil {
		return err
	}
	_, err := s.Stats().WriteTo(w)

	return err
}
