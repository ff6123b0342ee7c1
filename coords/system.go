// Package coords models the linear world coordinate system of a FITS image.
//
// Each pixel axis maps independently onto a world axis:
//
//	world = RefValue + (pixel - RefPixel) * Increment
//
// RefPixel is 0-based; the header's 1-based CRPIXn is converted by the
// header package.
package coords

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/fitsimage/errs"
)

// Axis describes one pixel axis.
type Axis struct {
	Type      string  // CTYPEn, e.g. "RA---SIN" or "FREQ"
	Unit      string  // CUNITn
	RefPixel  float64 // 0-based reference pixel
	RefValue  float64 // world value at RefPixel
	Increment float64 // world units per pixel
}

// System is an immutable set of per-axis linear mappings.
type System struct {
	axes []Axis
}

// NewSystem builds a coordinate system from axis descriptions.
//
// Increments must be finite and non-zero; reference values and pixels must be
// finite. Failures wrap errs.ErrHeader.
func NewSystem(axes []Axis) (*System, error) {
	for i, ax := range axes {
		if ax.Increment == 0 || !isFinite(ax.Increment) {
			return nil, fmt.Errorf("%w: axis %d increment %v is unusable", errs.ErrHeader, i, ax.Increment)
		}
		if !isFinite(ax.RefPixel) || !isFinite(ax.RefValue) {
			return nil, fmt.Errorf("%w: axis %d reference is not finite", errs.ErrHeader, i)
		}
	}

	return &System{axes: slices.Clone(axes)}, nil
}

// NDim returns the number of axes.
func (s *System) NDim() int {
	return len(s.axes)
}

// Axis returns the description of axis i.
func (s *System) Axis(i int) Axis {
	return s.axes[i]
}

// Axes returns a copy of all axis descriptions.
func (s *System) Axes() []Axis {
	return slices.Clone(s.axes)
}

// ToWorld converts a pixel position to world coordinates.
func (s *System) ToWorld(pixel []float64) ([]float64, error) {
	if len(pixel) != len(s.axes) {
		return nil, fmt.Errorf("pixel has %d axes, coordinate system has %d", len(pixel), len(s.axes))
	}

	world := make([]float64, len(pixel))
	for i, ax := range s.axes {
		world[i] = ax.RefValue + (pixel[i]-ax.RefPixel)*ax.Increment
	}

	return world, nil
}

// ToPixel converts world coordinates to a pixel position.
func (s *System) ToPixel(world []float64) ([]float64, error) {
	if len(world) != len(s.axes) {
		return nil, fmt.Errorf("world has %d axes, coordinate system has %d", len(world), len(s.axes))
	}

	pixel := make([]float64, len(world))
	for i, ax := range s.axes {
		pixel[i] = ax.RefPixel + (world[i]-ax.RefValue)/ax.Increment
	}

	return pixel, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
