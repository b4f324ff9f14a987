// Package elements provides concrete optical elements built on the
// agnostic operator core: each owns raw parameters, declares its
// dependency signature, and performs its transform from cached per-context
// instance data.
package elements

import (
	"math/cmplx"

	"github.com/photonlab/refrakt/internal/agnostic"
	"github.com/photonlab/refrakt/internal/field"
)

// apodizerInstance holds the apodization resolved for one context, with
// its conjugate precomputed for the adjoint path.
type apodizerInstance struct {
	apod     agnostic.Value
	conjApod agnostic.Value
}

type apodizerTransform struct{}

func (apodizerTransform) OutputGrid(_ *agnostic.ParamSet, input *field.Grid, _ float64) (*field.Grid, error) {
	return input, nil
}

func (apodizerTransform) InputGrid(_ *agnostic.ParamSet, output *field.Grid, _ float64) (*field.Grid, error) {
	return output, nil
}

func (apodizerTransform) MakeInstance(params *agnostic.ParamSet, ctx agnostic.Context) (any, error) {
	v, err := params.Evaluate("apodization", ctx)
	if err != nil {
		return nil, err
	}
	inst := &apodizerInstance{apod: v}
	if v.IsField() {
		inst.conjApod = agnostic.FieldValue(v.Field().Conj())
	} else {
		inst.conjApod = agnostic.Scalar(cmplx.Conj(v.Scalar()))
	}
	return inst, nil
}

func (apodizerTransform) Apply(inst any, wf *field.Wavefront) (*field.Wavefront, error) {
	return multiply(inst.(*apodizerInstance).apod, wf)
}

func (apodizerTransform) ApplyAdjoint(inst any, wf *field.Wavefront) (*field.Wavefront, error) {
	return multiply(inst.(*apodizerInstance).conjApod, wf)
}

func multiply(v agnostic.Value, wf *field.Wavefront) (*field.Wavefront, error) {
	e := wf.ElectricField()
	if v.IsField() {
		out, err := e.Mul(v.Field())
		if err != nil {
			return nil, err
		}
		return field.NewWavefront(out, wf.Wavelength()), nil
	}
	return field.NewWavefront(e.Scale(v.Scalar()), wf.Wavelength()), nil
}

// Apodizer multiplies a wavefront by a transmittance that may vary with
// grid and wavelength. Backward applies the conjugate transmittance, the
// Hermitian adjoint of forward, which is not an inverse unless the
// apodization is unimodular.
type Apodizer struct {
	op *agnostic.Operator
}

// NewApodizer builds an apodizer from any raw apodization form accepted by
// agnostic.Classify. The operator's declared signature is the classified
// parameter's own.
func NewApodizer(apodization any, opts ...agnostic.Option) (*Apodizer, error) {
	p, err := agnostic.Classify(apodization)
	if err != nil {
		return nil, err
	}
	opts = append(opts, agnostic.WithParameter("apodization", p))
	op, err := agnostic.New(apodizerTransform{}, p.Signature(), opts...)
	if err != nil {
		return nil, err
	}
	return &Apodizer{op: op}, nil
}

// NewPhaseApodizer builds an apodizer whose transmittance is exp(i*phase),
// derived lazily from the raw phase parameter. The derived apodization
// inherits the phase parameter's dependency signature.
func NewPhaseApodizer(phase any, opts ...agnostic.Option) (*Apodizer, error) {
	p, err := agnostic.Classify(phase)
	if err != nil {
		return nil, err
	}
	apod, err := agnostic.Compose(func(args ...agnostic.Value) (agnostic.Value, error) {
		v := args[0]
		if v.IsField() {
			return agnostic.FieldValue(v.Field().Map(func(c complex128) complex128 {
				return cmplx.Exp(complex(0, 1) * c)
			})), nil
		}
		return agnostic.Scalar(cmplx.Exp(complex(0, 1) * v.Scalar())), nil
	}, p)
	if err != nil {
		return nil, err
	}
	return NewApodizer(apod, opts...)
}

// Forward multiplies wf by the apodization resolved for wf's context.
func (a *Apodizer) Forward(wf *field.Wavefront) (*field.Wavefront, error) {
	return a.op.Forward(wf)
}

// Backward multiplies wf by the conjugate apodization.
func (a *Apodizer) Backward(wf *field.Wavefront) (*field.Wavefront, error) {
	return a.op.Backward(wf)
}

// SetApodization replaces the apodization and clears all cached instances.
func (a *Apodizer) SetApodization(value any) error {
	return a.op.SetParameter("apodization", value)
}

// Apodization returns the stored raw apodization parameter.
func (a *Apodizer) Apodization() *agnostic.Parameter {
	p, _ := a.op.Parameter("apodization")
	return p
}

// Operator exposes the underlying agnostic operator.
func (a *Apodizer) Operator() *agnostic.Operator { return a.op }
