package field

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// fieldSnapshot is the on-disk form of a field. Complex samples are split
// into real and imaginary planes since CBOR has no complex type.
type fieldSnapshot struct {
	Dims   [2]int     `cbor:"dims"`
	Delta  [2]float64 `cbor:"delta"`
	Center [2]float64 `cbor:"center"`
	Real   []float64  `cbor:"re"`
	Imag   []float64  `cbor:"im"`
}

// WriteField encodes f to w as CBOR.
func WriteField(w io.Writer, f *Field) error {
	g := f.Grid()
	snap := fieldSnapshot{
		Dims:   g.Dims(),
		Delta:  g.Delta(),
		Center: g.Center(),
		Real:   make([]float64, f.Len()),
		Imag:   make([]float64, f.Len()),
	}
	for i, v := range f.Data() {
		snap.Real[i] = real(v)
		snap.Imag[i] = imag(v)
	}
	return cbor.NewEncoder(w).Encode(snap)
}

// ReadField decodes a CBOR field snapshot from r. The returned field is
// bound to a freshly built grid.
func ReadField(r io.Reader) (*Field, error) {
	var snap fieldSnapshot
	if err := cbor.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("field: decode snapshot: %w", err)
	}
	g := NewShiftedGrid(snap.Dims, snap.Delta, snap.Center)
	if len(snap.Real) != g.Size() || len(snap.Imag) != len(snap.Real) {
		return nil, fmt.Errorf("field: snapshot has %d/%d samples for a grid of size %d",
			len(snap.Real), len(snap.Imag), g.Size())
	}
	data := make([]complex128, g.Size())
	for i := range data {
		data[i] = complex(snap.Real[i], snap.Imag[i])
	}
	return New(data, g)
}
