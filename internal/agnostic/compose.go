package agnostic

import "github.com/photonlab/refrakt/internal/field"

// ComposeFunc is a pure function over resolved values, one argument per
// composed parameter.
type ComposeFunc func(args ...Value) (Value, error)

// Compose derives a new raw parameter by applying fn to the given
// parameters. The result's dependency signature is the union of the
// inputs' signatures. When every input is constant, fn is applied
// immediately and a constant comes back; otherwise the minimal lazy
// variant for the union is returned, whose callable resolves each input
// under the caller's context before applying fn. Derived parameters are
// themselves fully agnostic: they compose again and store directly as
// another operator's parameter.
func Compose(fn ComposeFunc, params ...*Parameter) (*Parameter, error) {
	sig := Union(params...)

	apply := func(ctx Context) (Value, error) {
		args := make([]Value, len(params))
		for i, p := range params {
			v, err := p.Evaluate(ctx)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		return fn(args...)
	}

	switch {
	case !sig.Grid && !sig.Wavelength:
		v, err := apply(Context{})
		if err != nil {
			return nil, err
		}
		if v.IsField() {
			return BoundField(v.Field()), nil
		}
		return Constant(v.Scalar()), nil

	case !sig.Grid:
		return OfWavelength(func(wavelength float64) (Value, error) {
			return apply(Context{Wavelength: wavelength})
		}), nil

	case !sig.Wavelength:
		return Generated(func(g *field.Grid) (*field.Field, error) {
			v, err := apply(Context{Input: g})
			if err != nil {
				return nil, err
			}
			return v.AsField(g), nil
		}), nil

	default:
		return OfGridAndWavelength(func(g *field.Grid, wavelength float64) (*field.Field, error) {
			v, err := apply(Context{Input: g, Wavelength: wavelength})
			if err != nil {
				return nil, err
			}
			return v.AsField(g), nil
		}), nil
	}
}
