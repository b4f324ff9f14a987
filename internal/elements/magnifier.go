package elements

import (
	"fmt"

	"github.com/photonlab/refrakt/internal/agnostic"
	"github.com/photonlab/refrakt/internal/field"
)

// magnifierInstance pins the grids of one resolution context together with
// the magnification resolved for it.
type magnifierInstance struct {
	in, out *field.Grid
	mag     float64
}

type magnifierTransform struct{}

func magnificationAt(params *agnostic.ParamSet, ctx agnostic.Context) (float64, error) {
	v, err := params.Evaluate("magnification", ctx)
	if err != nil {
		return 0, err
	}
	if v.IsField() {
		return 0, fmt.Errorf("elements: magnification must resolve to a scalar")
	}
	m := real(v.Scalar())
	if m == 0 {
		return 0, fmt.Errorf("elements: zero magnification")
	}
	return m, nil
}

func (magnifierTransform) OutputGrid(params *agnostic.ParamSet, input *field.Grid, wavelength float64) (*field.Grid, error) {
	m, err := magnificationAt(params, agnostic.Context{Input: input, Wavelength: wavelength})
	if err != nil {
		return nil, err
	}
	return input.Scaled(m), nil
}

func (magnifierTransform) InputGrid(params *agnostic.ParamSet, output *field.Grid, wavelength float64) (*field.Grid, error) {
	m, err := magnificationAt(params, agnostic.Context{Output: output, Wavelength: wavelength})
	if err != nil {
		return nil, err
	}
	return output.Scaled(1 / m), nil
}

func (magnifierTransform) MakeInstance(params *agnostic.ParamSet, ctx agnostic.Context) (any, error) {
	m, err := magnificationAt(params, ctx)
	if err != nil {
		return nil, err
	}
	return &magnifierInstance{in: ctx.Input, out: ctx.Output, mag: m}, nil
}

// Apply rescales the field onto the magnified grid. The amplitude scales
// by 1/m so the total power is conserved on the stretched sample cells.
func (magnifierTransform) Apply(inst any, wf *field.Wavefront) (*field.Wavefront, error) {
	mi := inst.(*magnifierInstance)
	e, err := wf.ElectricField().Scale(complex(1/mi.mag, 0)).Rebind(mi.out)
	if err != nil {
		return nil, err
	}
	return field.NewWavefront(e, wf.Wavelength()), nil
}

// ApplyAdjoint maps an output-side field back onto the input grid with the
// transposed scaling. It is not Apply's inverse: a round trip attenuates
// by 1/m^2.
func (magnifierTransform) ApplyAdjoint(inst any, wf *field.Wavefront) (*field.Wavefront, error) {
	mi := inst.(*magnifierInstance)
	e, err := wf.ElectricField().Scale(complex(1/mi.mag, 0)).Rebind(mi.in)
	if err != nil {
		return nil, err
	}
	return field.NewWavefront(e, wf.Wavelength()), nil
}

// Magnifier rescales a wavefront onto a grid magnified by a scalar factor,
// which may itself vary with wavelength (a chromatic zoom).
type Magnifier struct {
	op *agnostic.Operator
}

// NewMagnifier builds a magnifier from a raw magnification: a positive
// scalar or a wavelength function resolving to one.
func NewMagnifier(magnification any, opts ...agnostic.Option) (*Magnifier, error) {
	p, err := agnostic.Classify(magnification)
	if err != nil {
		return nil, err
	}
	if p.Signature().Grid {
		return nil, fmt.Errorf("elements: magnification cannot be grid dependent")
	}
	sig := agnostic.Signature{Grid: true, Wavelength: p.Signature().Wavelength}
	opts = append(opts, agnostic.WithParameter("magnification", p))
	op, err := agnostic.New(magnifierTransform{}, sig, opts...)
	if err != nil {
		return nil, err
	}
	return &Magnifier{op: op}, nil
}

// Forward rescales wf onto the magnified grid.
func (m *Magnifier) Forward(wf *field.Wavefront) (*field.Wavefront, error) {
	return m.op.Forward(wf)
}

// Backward applies the Hermitian adjoint, mapping wf back to the input grid.
func (m *Magnifier) Backward(wf *field.Wavefront) (*field.Wavefront, error) {
	return m.op.Backward(wf)
}

// OutputGrid returns the magnified grid for input at wavelength.
func (m *Magnifier) OutputGrid(input *field.Grid, wavelength float64) (*field.Grid, error) {
	return m.op.OutputGrid(input, wavelength)
}

// InputGrid returns the grid that magnifies onto output at wavelength.
func (m *Magnifier) InputGrid(output *field.Grid, wavelength float64) (*field.Grid, error) {
	return m.op.InputGrid(output, wavelength)
}

// SetMagnification replaces the magnification and clears all cached
// instances and derived grids.
func (m *Magnifier) SetMagnification(value any) error {
	return m.op.SetParameter("magnification", value)
}

// Operator exposes the underlying agnostic operator.
func (m *Magnifier) Operator() *agnostic.Operator { return m.op }
