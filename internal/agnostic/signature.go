package agnostic

// Signature declares which components of a resolution context a parameter
// or operator actually depends on. An operator's declared signature must be
// a superset of the true signature of every parameter it stores; an
// under-declared dependency makes cache lookup silently reuse stale data.
type Signature struct {
	Grid       bool
	Wavelength bool
}

// Signature returns the dependency signature implied by the parameter's
// variant. Constants contribute nothing; bound fields and generators depend
// on grid only; wavelength functions on wavelength only; grid+wavelength
// functions on both.
func (p *Parameter) Signature() Signature {
	switch p.kind {
	case KindField, KindGenerator:
		return Signature{Grid: true}
	case KindWavelengthFunc:
		return Signature{Wavelength: true}
	case KindGridWavelengthFunc:
		return Signature{Grid: true, Wavelength: true}
	default:
		return Signature{}
	}
}

// Union returns the component-wise OR of the parameters' signatures.
func Union(params ...*Parameter) Signature {
	var s Signature
	for _, p := range params {
		ps := p.Signature()
		s.Grid = s.Grid || ps.Grid
		s.Wavelength = s.Wavelength || ps.Wavelength
	}
	return s
}

// Key projects ctx onto a cache key, dropping the components the signature
// declares irrelevant. Grids enter the key by pointer identity.
func (s Signature) Key(ctx Context) CacheKey {
	var k CacheKey
	if s.Grid {
		k.input = ctx.Input
		k.output = ctx.Output
	}
	if s.Wavelength {
		k.wavelength = ctx.Wavelength
	}
	return k
}
