package tile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name      string
		shape     []int
		target    int
		tileShape []int
		tiles     int
	}{
		{"cube splits second axis", []int{512, 512, 64}, 32768, []int{512, 64, 1}, 8 * 64},
		{"small image is one tile", []int{10, 10}, 32768, []int{10, 10}, 1},
		{"long first axis", []int{100000, 3}, 32768, []int{32768, 1}, 4 * 3},
		{"ragged block", []int{100, 100}, 3000, []int{100, 30}, 4},
		{"default target", []int{1000, 1000}, 0, []int{1000, 32}, 32},
		{"one axis", []int{7}, 4, []int{4}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayout(tt.shape, tt.target)
			require.Equal(t, tt.tileShape, l.TileShape())
			require.Equal(t, tt.tiles, l.TileCount())
			require.Equal(t, tt.shape, l.Shape())
		})
	}
}

func TestLayoutLocate(t *testing.T) {
	shapes := [][]int{{7}, {5, 4}, {3, 7, 2}, {4, 4, 3}}
	targets := []int{1, 3, 5, 12, 100}

	for _, shape := range shapes {
		for _, target := range targets {
			l := NewLayout(shape, target)
			n := 1
			for _, s := range shape {
				n *= s
			}

			covered := 0
			for id := range l.TileCount() {
				start, length := l.Span(id)
				require.Positive(t, length)
				covered += length

				for idx := start; idx < start+length; idx++ {
					gotID, gotStart, gotLength := l.Locate(idx)
					require.Equal(t, id, gotID, "shape %v target %d idx %d", shape, target, idx)
					require.Equal(t, start, gotStart)
					require.Equal(t, length, gotLength)
				}
			}
			require.Equal(t, n, covered, "tiles partition the region for shape %v target %d", shape, target)
		}
	}
}

func TestLayoutNiceCursorShape(t *testing.T) {
	l := NewLayout([]int{100, 100, 8}, 1000)
	require.Equal(t, []int{100, 10, 1}, l.TileShape())
	require.Equal(t, 1000, l.TilePixels())

	require.Equal(t, []int{100, 10, 1}, l.NiceCursorShape(10), "never below one tile")
	require.Equal(t, []int{100, 10, 4}, l.NiceCursorShape(4000))
	require.Equal(t, []int{100, 100, 8}, l.NiceCursorShape(100000))
}

func TestTilesSpanned(t *testing.T) {
	require.Equal(t, 1, tilesSpanned(0, 10, 10))
	require.Equal(t, 2, tilesSpanned(5, 10, 10))
	require.Equal(t, 10, tilesSpanned(0, 100, 10))
	require.Equal(t, 1, tilesSpanned(3, 0, 10))
}
