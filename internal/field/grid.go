package field

import "fmt"

// Grid is a regular Cartesian sample grid in two dimensions. Samples are
// laid out row-major with x varying fastest. Grids are compared by pointer
// identity where instance caching is concerned: two structurally identical
// grids built independently are deliberately distinct, since cached data may
// reference buffers bound to one specific grid.
type Grid struct {
	dims   [2]int
	delta  [2]float64
	center [2]float64
	x, y   []float64
}

// NewRegularGrid builds a grid of dims[0] x dims[1] samples spaced by delta,
// centered on the origin.
func NewRegularGrid(dims [2]int, delta [2]float64) *Grid {
	return NewShiftedGrid(dims, delta, [2]float64{0, 0})
}

// NewShiftedGrid builds a regular grid centered on the given point.
func NewShiftedGrid(dims [2]int, delta [2]float64, center [2]float64) *Grid {
	if dims[0] <= 0 || dims[1] <= 0 {
		panic(fmt.Sprintf("field: invalid grid dims %v", dims))
	}
	n := dims[0] * dims[1]
	g := &Grid{
		dims:   dims,
		delta:  delta,
		center: center,
		x:      make([]float64, n),
		y:      make([]float64, n),
	}
	x0 := center[0] - delta[0]*float64(dims[0]-1)/2
	y0 := center[1] - delta[1]*float64(dims[1]-1)/2
	for j := 0; j < dims[1]; j++ {
		for i := 0; i < dims[0]; i++ {
			k := j*dims[0] + i
			g.x[k] = x0 + float64(i)*delta[0]
			g.y[k] = y0 + float64(j)*delta[1]
		}
	}
	return g
}

// Size returns the number of sample points.
func (g *Grid) Size() int { return g.dims[0] * g.dims[1] }

// Dims returns the sample counts along each axis.
func (g *Grid) Dims() [2]int { return g.dims }

// Delta returns the sample spacing along each axis.
func (g *Grid) Delta() [2]float64 { return g.delta }

// Center returns the grid center.
func (g *Grid) Center() [2]float64 { return g.center }

// X returns the flattened x coordinates of all samples. The returned slice
// is owned by the grid and must not be modified.
func (g *Grid) X() []float64 { return g.x }

// Y returns the flattened y coordinates of all samples. The returned slice
// is owned by the grid and must not be modified.
func (g *Grid) Y() []float64 { return g.y }

// Weight returns the area of one sample cell.
func (g *Grid) Weight() float64 { return g.delta[0] * g.delta[1] }

// SameShape reports whether h has the same sample counts as g.
func (g *Grid) SameShape(h *Grid) bool {
	return h != nil && g.dims == h.dims
}

// Scaled returns a new grid with coordinates and spacing multiplied by m.
func (g *Grid) Scaled(m float64) *Grid {
	return NewShiftedGrid(g.dims,
		[2]float64{g.delta[0] * m, g.delta[1] * m},
		[2]float64{g.center[0] * m, g.center[1] * m})
}

// Shifted returns a new grid translated by (dx, dy).
func (g *Grid) Shifted(dx, dy float64) *Grid {
	return NewShiftedGrid(g.dims, g.delta,
		[2]float64{g.center[0] + dx, g.center[1] + dy})
}
