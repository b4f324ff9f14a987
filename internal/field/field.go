package field

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
)

// Field is a dense complex-valued function sampled over a Grid. Fields are
// immutable by convention: operations return new fields and never write to
// their receivers.
type Field struct {
	data []complex128
	grid *Grid
}

// New wraps data as a field over grid. The slice is taken over, not copied.
func New(data []complex128, grid *Grid) (*Field, error) {
	if len(data) != grid.Size() {
		return nil, fmt.Errorf("field: %d samples for a grid of size %d", len(data), grid.Size())
	}
	return &Field{data: data, grid: grid}, nil
}

// Uniform returns a field with the same value at every sample of grid.
func Uniform(grid *Grid, v complex128) *Field {
	data := make([]complex128, grid.Size())
	for i := range data {
		data[i] = v
	}
	return &Field{data: data, grid: grid}
}

// Grid returns the grid the field is defined over.
func (f *Field) Grid() *Grid { return f.grid }

// Data returns the underlying samples. The slice is owned by the field and
// must not be modified.
func (f *Field) Data() []complex128 { return f.data }

// Len returns the number of samples.
func (f *Field) Len() int { return len(f.data) }

// At returns the i-th sample.
func (f *Field) At(i int) complex128 { return f.data[i] }

// Copy returns an independent copy of the field.
func (f *Field) Copy() *Field {
	data := make([]complex128, len(f.data))
	copy(data, f.data)
	return &Field{data: data, grid: f.grid}
}

// Mul returns the element-wise product f*g. The two fields must be defined
// over grids of the same shape; the result keeps f's grid.
func (f *Field) Mul(g *Field) (*Field, error) {
	if !f.grid.SameShape(g.grid) {
		return nil, fmt.Errorf("field: shape mismatch %v vs %v", f.grid.Dims(), g.grid.Dims())
	}
	data := make([]complex128, len(f.data))
	cmplxs.MulTo(data, f.data, g.data)
	return &Field{data: data, grid: f.grid}, nil
}

// Scale returns f multiplied by the scalar c.
func (f *Field) Scale(c complex128) *Field {
	data := make([]complex128, len(f.data))
	cmplxs.ScaleTo(data, c, f.data)
	return &Field{data: data, grid: f.grid}
}

// Conj returns the element-wise complex conjugate of f.
func (f *Field) Conj() *Field {
	data := make([]complex128, len(f.data))
	for i, v := range f.data {
		data[i] = cmplx.Conj(v)
	}
	return &Field{data: data, grid: f.grid}
}

// Rebind returns a field with the same samples defined over grid, which
// must have the same shape as the field's current grid.
func (f *Field) Rebind(grid *Grid) (*Field, error) {
	if !f.grid.SameShape(grid) {
		return nil, fmt.Errorf("field: cannot rebind %v samples to grid %v", f.grid.Dims(), grid.Dims())
	}
	return &Field{data: f.data, grid: grid}, nil
}

// Sum returns the sum of all samples.
func (f *Field) Sum() complex128 {
	return cmplxs.Sum(f.data)
}

// Map returns a new field with fn applied to every sample.
func (f *Field) Map(fn func(complex128) complex128) *Field {
	data := make([]complex128, len(f.data))
	for i, v := range f.data {
		data[i] = fn(v)
	}
	return &Field{data: data, grid: f.grid}
}
