package agnostic

import (
	"fmt"

	"github.com/photonlab/refrakt/internal/field"
)

// Context identifies one concrete instantiation of an agnostic operator:
// the grids on either side of the transform and the wavelength. Components
// that a parameter or operator does not depend on may be left zero.
type Context struct {
	Input      *field.Grid
	Output     *field.Grid
	Wavelength float64
}

// grid returns the grid a parameter evaluates against, preferring the
// input side.
func (c Context) grid() *field.Grid {
	if c.Input != nil {
		return c.Input
	}
	return c.Output
}

// Kind identifies the active variant of a Parameter.
type Kind uint8

const (
	// KindConstant is a fixed scalar, independent of grid and wavelength.
	KindConstant Kind = iota
	// KindField is a precomputed spatial field bound to one grid.
	KindField
	// KindGenerator produces a spatial field for any requested grid.
	KindGenerator
	// KindWavelengthFunc produces a scalar or field from a wavelength.
	KindWavelengthFunc
	// KindGridWavelengthFunc produces a spatial field from a grid and a
	// wavelength.
	KindGridWavelengthFunc
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindField:
		return "field"
	case KindGenerator:
		return "generator"
	case KindWavelengthFunc:
		return "wavelength-func"
	case KindGridWavelengthFunc:
		return "grid-wavelength-func"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// GeneratorFunc produces a field for a grid.
type GeneratorFunc func(g *field.Grid) (*field.Field, error)

// WavelengthFunc produces a scalar or field value for a wavelength.
type WavelengthFunc func(wavelength float64) (Value, error)

// GridWavelengthFunc produces a field for a grid and a wavelength.
type GridWavelengthFunc func(g *field.Grid, wavelength float64) (*field.Field, error)

// Parameter is a closed tagged union over the five raw parameter shapes.
// Exactly one variant is active; the union is built once at the boundary by
// Classify or one of the typed constructors and never re-inspected ad hoc.
type Parameter struct {
	kind     Kind
	constant Value
	bound    *field.Field
	gen      GeneratorFunc
	wl       WavelengthFunc
	gridWL   GridWavelengthFunc
}

// Constant builds the constant variant.
func Constant(v complex128) *Parameter {
	return &Parameter{kind: KindConstant, constant: Scalar(v)}
}

// BoundField builds the precomputed spatial field variant.
func BoundField(f *field.Field) *Parameter {
	return &Parameter{kind: KindField, bound: f}
}

// Generated builds the field generator variant.
func Generated(fn GeneratorFunc) *Parameter {
	return &Parameter{kind: KindGenerator, gen: fn}
}

// OfWavelength builds the wavelength function variant.
func OfWavelength(fn WavelengthFunc) *Parameter {
	return &Parameter{kind: KindWavelengthFunc, wl: fn}
}

// OfGridAndWavelength builds the grid+wavelength function variant.
func OfGridAndWavelength(fn GridWavelengthFunc) *Parameter {
	return &Parameter{kind: KindGridWavelengthFunc, gridWL: fn}
}

// Classify builds a Parameter from any supported raw form. The case order
// is load-bearing: a value convertible to both the wavelength-only and the
// grid+wavelength function forms classifies as wavelength-only, matching
// the documented precedence of the evaluation protocol.
func Classify(v any) (*Parameter, error) {
	switch x := v.(type) {
	case *Parameter:
		return x, nil
	case Value:
		if x.IsField() {
			return BoundField(x.Field()), nil
		}
		return Constant(x.Scalar()), nil
	case complex128:
		return Constant(x), nil
	case float64:
		return Constant(complex(x, 0)), nil
	case int:
		return Constant(complex(float64(x), 0)), nil
	case *field.Field:
		return BoundField(x), nil
	case GeneratorFunc:
		return Generated(x), nil
	case func(*field.Grid) (*field.Field, error):
		return Generated(x), nil
	case WavelengthFunc:
		return OfWavelength(x), nil
	case func(float64) (Value, error):
		return OfWavelength(x), nil
	case func(float64) complex128:
		return OfWavelength(func(wl float64) (Value, error) {
			return Scalar(x(wl)), nil
		}), nil
	case func(float64) float64:
		return OfWavelength(func(wl float64) (Value, error) {
			return Scalar(complex(x(wl), 0)), nil
		}), nil
	case GridWavelengthFunc:
		return OfGridAndWavelength(x), nil
	case func(*field.Grid, float64) (*field.Field, error):
		return OfGridAndWavelength(x), nil
	default:
		return nil, &ResolutionError{Err: fmt.Errorf("unsupported raw parameter type %T", v)}
	}
}

// Kind returns the active variant.
func (p *Parameter) Kind() Kind { return p.kind }

// Evaluate resolves the parameter to a concrete value under ctx. Constants
// ignore the context entirely. A bound field must agree with the context's
// grid: the exact grid, or one of the same shape; anything else is a
// GridMismatchError. Callable variants are invoked with the components
// their shape declares; errors they raise propagate as ResolutionError.
func (p *Parameter) Evaluate(ctx Context) (Value, error) {
	switch p.kind {
	case KindConstant:
		return p.constant, nil
	case KindField:
		if g := ctx.grid(); g != nil && g != p.bound.Grid() && !p.bound.Grid().SameShape(g) {
			return Value{}, &GridMismatchError{Want: g, Got: p.bound.Grid()}
		}
		return FieldValue(p.bound), nil
	case KindGenerator:
		f, err := p.gen(ctx.grid())
		if err != nil {
			return Value{}, &ResolutionError{Err: err}
		}
		return FieldValue(f), nil
	case KindWavelengthFunc:
		v, err := p.wl(ctx.Wavelength)
		if err != nil {
			return Value{}, &ResolutionError{Err: err}
		}
		return v, nil
	case KindGridWavelengthFunc:
		f, err := p.gridWL(ctx.grid(), ctx.Wavelength)
		if err != nil {
			return Value{}, &ResolutionError{Err: err}
		}
		return FieldValue(f), nil
	default:
		return Value{}, &ResolutionError{Err: fmt.Errorf("invalid parameter kind %v", p.kind)}
	}
}
