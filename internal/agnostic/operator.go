package agnostic

import (
	"fmt"
	"sync"

	"github.com/photonlab/refrakt/internal/field"
)

// Transform is the element-specific half of an agnostic operator: the grid
// mapping, the instance builder, and the forward and adjoint applications.
// Apply and ApplyAdjoint receive the instance data explicitly so they stay
// testable without any cache in front of them. ApplyAdjoint is the
// Hermitian adjoint of Apply, which equals its inverse only for a unitary
// transform.
type Transform interface {
	// OutputGrid derives the grid a field on input propagates onto.
	OutputGrid(params *ParamSet, input *field.Grid, wavelength float64) (*field.Grid, error)
	// InputGrid derives the grid that propagates onto output. Transforms
	// whose mapping is not analytically invertible return
	// ErrInverseGridUndefined for grids they have never produced.
	InputGrid(params *ParamSet, output *field.Grid, wavelength float64) (*field.Grid, error)
	// MakeInstance builds the instance data for one resolution context.
	MakeInstance(params *ParamSet, ctx Context) (any, error)
	// Apply transforms a wavefront on the input grid using inst.
	Apply(inst any, wf *field.Wavefront) (*field.Wavefront, error)
	// ApplyAdjoint applies the Hermitian adjoint to a wavefront on the
	// output grid using inst.
	ApplyAdjoint(inst any, wf *field.Wavefront) (*field.Wavefront, error)
}

// Operator dispatches forward and backward calls through a bounded instance
// cache, resolving raw parameters lazily per context. The declared
// signature controls which context components take part in cache keys; it
// must cover the true signature of every stored parameter.
type Operator struct {
	transform Transform
	signature Signature
	params    *ParamSet
	cache     *InstanceCache

	gridMu   sync.Mutex
	outGrids map[gridKey]*field.Grid
	inGrids  map[gridKey]*field.Grid
}

type gridKey struct {
	grid       *field.Grid
	wavelength float64
}

type config struct {
	capacity int
	raw      map[string]any
}

// Option configures an operator at construction.
type Option func(*config)

// WithCacheCapacity overrides the instance cache capacity.
func WithCacheCapacity(n int) Option {
	return func(c *config) { c.capacity = n }
}

// WithParameter stores a raw parameter under name. The value is classified
// by New using the same rules as SetParameter.
func WithParameter(name string, value any) Option {
	return func(c *config) { c.raw[name] = value }
}

// New builds an operator around transform with the declared signature.
func New(transform Transform, sig Signature, opts ...Option) (*Operator, error) {
	cfg := config{capacity: DefaultCacheCapacity, raw: make(map[string]any)}
	for _, opt := range opts {
		opt(&cfg)
	}
	o := &Operator{
		transform: transform,
		signature: sig,
		params:    newParamSet(),
		cache:     NewInstanceCache(cfg.capacity),
		outGrids:  make(map[gridKey]*field.Grid),
		inGrids:   make(map[gridKey]*field.Grid),
	}
	for name, value := range cfg.raw {
		if err := o.SetParameter(name, value); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Signature returns the operator's declared dependency signature.
func (o *Operator) Signature() Signature { return o.signature }

// Parameter returns the raw parameter stored under name.
func (o *Operator) Parameter(name string) (*Parameter, bool) {
	return o.params.Get(name)
}

// Cache exposes the operator's instance cache.
func (o *Operator) Cache() *InstanceCache { return o.cache }

// SetParameter classifies value and stores it under name. Its documented
// postcondition is a cleared instance cache: everything previously cached
// was computed from the old value and would otherwise be silently stale.
// Grid mappings derived from the old value are dropped as well.
func (o *Operator) SetParameter(name string, value any) error {
	p, err := Classify(value)
	if err != nil {
		if re, ok := err.(*ResolutionError); ok {
			return &ResolutionError{Name: name, Err: re.Err}
		}
		return err
	}
	ps := p.Signature()
	if (ps.Grid && !o.signature.Grid) || (ps.Wavelength && !o.signature.Wavelength) {
		return &ResolutionError{
			Name: name,
			Err: fmt.Errorf("parameter signature (grid=%t, wavelength=%t) exceeds the operator's declared (grid=%t, wavelength=%t)",
				ps.Grid, ps.Wavelength, o.signature.Grid, o.signature.Wavelength),
		}
	}
	o.params.set(name, p)
	o.cache.Clear()
	o.clearGrids()
	return nil
}

func (o *Operator) clearGrids() {
	o.gridMu.Lock()
	defer o.gridMu.Unlock()
	o.outGrids = make(map[gridKey]*field.Grid)
	o.inGrids = make(map[gridKey]*field.Grid)
}

// gridContextKey drops the wavelength for operators whose grid mapping
// cannot depend on it.
func (o *Operator) gridContextKey(g *field.Grid, wavelength float64) gridKey {
	if !o.signature.Wavelength {
		wavelength = 0
	}
	return gridKey{grid: g, wavelength: wavelength}
}

// OutputGrid returns the grid a field on input maps onto at wavelength.
// Derivations are memoized in both directions, so OutputGrid and InputGrid
// round-trip to the identical grid pointer for every context either of
// them has seen.
func (o *Operator) OutputGrid(input *field.Grid, wavelength float64) (*field.Grid, error) {
	o.gridMu.Lock()
	defer o.gridMu.Unlock()
	key := o.gridContextKey(input, wavelength)
	if out, ok := o.outGrids[key]; ok {
		return out, nil
	}
	out, err := o.transform.OutputGrid(o.params, input, wavelength)
	if err != nil {
		return nil, err
	}
	o.outGrids[key] = out
	o.inGrids[o.gridContextKey(out, wavelength)] = input
	return out, nil
}

// InputGrid returns the grid that maps onto output at wavelength. For a
// context never seen and not derivable analytically the transform reports
// ErrInverseGridUndefined.
func (o *Operator) InputGrid(output *field.Grid, wavelength float64) (*field.Grid, error) {
	o.gridMu.Lock()
	defer o.gridMu.Unlock()
	key := o.gridContextKey(output, wavelength)
	if in, ok := o.inGrids[key]; ok {
		return in, nil
	}
	in, err := o.transform.InputGrid(o.params, output, wavelength)
	if err != nil {
		return nil, err
	}
	o.inGrids[key] = in
	o.outGrids[o.gridContextKey(in, wavelength)] = output
	return in, nil
}

// Forward propagates wf through the operator. The incoming field's grid is
// the input grid of the resolution context; instance data is fetched from
// the cache or built on miss. The input wavefront is never mutated.
func (o *Operator) Forward(wf *field.Wavefront) (*field.Wavefront, error) {
	in := wf.ElectricField().Grid()
	out, err := o.OutputGrid(in, wf.Wavelength())
	if err != nil {
		return nil, err
	}
	ctx := Context{Input: in, Output: out, Wavelength: wf.Wavelength()}
	inst, err := o.instance(ctx)
	if err != nil {
		return nil, err
	}
	return o.transform.Apply(inst, wf)
}

// Backward applies the Hermitian adjoint to wf, whose field lives on the
// output grid. The input-side grid is recovered through InputGrid, so the
// cache key matches the one Forward would use without Forward ever having
// run for this context.
func (o *Operator) Backward(wf *field.Wavefront) (*field.Wavefront, error) {
	out := wf.ElectricField().Grid()
	in, err := o.InputGrid(out, wf.Wavelength())
	if err != nil {
		return nil, err
	}
	ctx := Context{Input: in, Output: out, Wavelength: wf.Wavelength()}
	inst, err := o.instance(ctx)
	if err != nil {
		return nil, err
	}
	return o.transform.ApplyAdjoint(inst, wf)
}

func (o *Operator) instance(ctx Context) (any, error) {
	return o.cache.GetOrCreate(o.signature.Key(ctx), func() (any, error) {
		return o.transform.MakeInstance(o.params, ctx)
	})
}
