package agnostic

import (
	"fmt"
	"sync"
)

// ParamSet is the named raw parameters owned by one operator. Reads and
// writes are guarded so instance construction can evaluate parameters while
// a mutation is pending; the operator's cache discipline makes sure data
// built from a replaced value never survives the mutation.
type ParamSet struct {
	mu     sync.RWMutex
	params map[string]*Parameter
}

func newParamSet() *ParamSet {
	return &ParamSet{params: make(map[string]*Parameter)}
}

// Get returns the parameter stored under name.
func (s *ParamSet) Get(name string) (*Parameter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.params[name]
	return p, ok
}

// Evaluate resolves the parameter stored under name against ctx.
func (s *ParamSet) Evaluate(name string, ctx Context) (Value, error) {
	p, ok := s.Get(name)
	if !ok {
		return Value{}, &ResolutionError{Name: name, Err: fmt.Errorf("no such parameter")}
	}
	v, err := p.Evaluate(ctx)
	if err != nil {
		if re, isRes := err.(*ResolutionError); isRes && re.Name == "" {
			return Value{}, &ResolutionError{Name: name, Err: re.Err}
		}
		return Value{}, err
	}
	return v, nil
}

// Names returns the stored parameter names in unspecified order.
func (s *ParamSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.params))
	for name := range s.params {
		names = append(names, name)
	}
	return names
}

func (s *ParamSet) set(name string, p *Parameter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params[name] = p
}
