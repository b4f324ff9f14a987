package agnostic

import (
	"errors"
	"fmt"

	"github.com/photonlab/refrakt/internal/field"
)

// ErrInverseGridUndefined is returned by grid-mapping queries for a context
// that was never encountered and cannot be derived analytically.
var ErrInverseGridUndefined = errors.New("agnostic: inverse grid undefined for this context")

// ResolutionError reports that a raw parameter could not be classified or
// failed during evaluation.
type ResolutionError struct {
	Name string // parameter name, empty when unnamed
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("agnostic: resolve parameter: %v", e.Err)
	}
	return fmt.Sprintf("agnostic: resolve parameter %q: %v", e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// GridMismatchError reports a bound spatial field whose grid disagrees with
// the grid demanded by the resolution context. It is never silently coerced.
type GridMismatchError struct {
	Want, Got *field.Grid
}

func (e *GridMismatchError) Error() string {
	return fmt.Sprintf("agnostic: bound field grid %v does not match requested grid %v",
		e.Got.Dims(), e.Want.Dims())
}

// ConstructionError wraps an error raised while building instance data.
// No partial entry is ever committed to the cache.
type ConstructionError struct {
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("agnostic: construct instance data: %v", e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
