package coords

import (
	"math"
	"testing"

	"github.com/arloliu/fitsimage/errs"
	"github.com/stretchr/testify/require"
)

func testSystem(t *testing.T) *System {
	t.Helper()

	sys, err := NewSystem([]Axis{
		{Type: "RA---SIN", Unit: "deg", RefPixel: 49, RefValue: 180, Increment: -0.001},
		{Type: "DEC--SIN", Unit: "deg", RefPixel: 49, RefValue: -30, Increment: 0.001},
		{Type: "FREQ", Unit: "Hz", RefPixel: 0, RefValue: 1.4e9, Increment: 1e6},
	})
	require.NoError(t, err)

	return sys
}

func TestNewSystem(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		sys := testSystem(t)
		require.Equal(t, 3, sys.NDim())
		require.Equal(t, "FREQ", sys.Axis(2).Type)
		require.Len(t, sys.Axes(), 3)
	})

	t.Run("zero increment", func(t *testing.T) {
		_, err := NewSystem([]Axis{{Increment: 0}})
		require.ErrorIs(t, err, errs.ErrHeader)
	})

	t.Run("non-finite increment", func(t *testing.T) {
		_, err := NewSystem([]Axis{{Increment: math.Inf(1)}})
		require.ErrorIs(t, err, errs.ErrHeader)
	})

	t.Run("nan reference", func(t *testing.T) {
		_, err := NewSystem([]Axis{{Increment: 1, RefValue: math.NaN()}})
		require.ErrorIs(t, err, errs.ErrHeader)
	})

	t.Run("axes are copied", func(t *testing.T) {
		axes := []Axis{{Type: "X", Increment: 1}}
		sys, err := NewSystem(axes)
		require.NoError(t, err)

		axes[0].Type = "Y"
		require.Equal(t, "X", sys.Axis(0).Type)
	})
}

func TestConversions(t *testing.T) {
	sys := testSystem(t)

	world, err := sys.ToWorld([]float64{49, 59, 10})
	require.NoError(t, err)
	require.InDelta(t, 180.0, world[0], 1e-12)
	require.InDelta(t, -29.99, world[1], 1e-12)
	require.InDelta(t, 1.41e9, world[2], 1e-3)

	pixel, err := sys.ToPixel(world)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{49, 59, 10}, pixel, 1e-9)

	_, err = sys.ToWorld([]float64{1})
	require.Error(t, err)
	_, err = sys.ToPixel([]float64{1, 2})
	require.Error(t, err)
}
