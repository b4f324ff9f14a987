package field

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Wavefront pairs an electric field with the wavelength it propagates at.
type Wavefront struct {
	e          *Field
	wavelength float64
}

// NewWavefront builds a wavefront from an electric field and a wavelength.
func NewWavefront(e *Field, wavelength float64) *Wavefront {
	return &Wavefront{e: e, wavelength: wavelength}
}

// ElectricField returns the wavefront's electric field.
func (w *Wavefront) ElectricField() *Field { return w.e }

// SetElectricField replaces the wavefront's electric field.
func (w *Wavefront) SetElectricField(e *Field) { w.e = e }

// Wavelength returns the wavelength.
func (w *Wavefront) Wavelength() float64 { return w.wavelength }

// Wavenumber returns 2*pi over the wavelength.
func (w *Wavefront) Wavenumber() float64 { return 2 * math.Pi / w.wavelength }

// Copy returns an independent copy of the wavefront.
func (w *Wavefront) Copy() *Wavefront {
	return &Wavefront{e: w.e.Copy(), wavelength: w.wavelength}
}

// Amplitude returns |E| per sample.
func (w *Wavefront) Amplitude() []float64 {
	out := make([]float64, w.e.Len())
	for i, v := range w.e.Data() {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// Phase returns arg(E) per sample.
func (w *Wavefront) Phase() []float64 {
	out := make([]float64, w.e.Len())
	for i, v := range w.e.Data() {
		out[i] = cmplx.Phase(v)
	}
	return out
}

// Intensity returns |E|^2 per sample.
func (w *Wavefront) Intensity() []float64 {
	out := w.Amplitude()
	floats.Mul(out, out)
	return out
}

// Power returns the total power, the intensity integrated over the grid.
func (w *Wavefront) Power() float64 {
	return floats.Sum(w.Intensity()) * w.e.Grid().Weight()
}
