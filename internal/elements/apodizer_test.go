package elements

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/photonlab/refrakt/internal/field"
)

func pupilGrid(n int) *field.Grid {
	return field.NewRegularGrid([2]int{n, n}, [2]float64{1e-3, 1e-3})
}

func flatWavefront(g *field.Grid, wavelength float64) *field.Wavefront {
	return field.NewWavefront(field.Uniform(g, 1), wavelength)
}

func TestApodizerScalar(t *testing.T) {
	apod, err := NewApodizer(complex(0.5, 0.3))
	require.NoError(t, err)

	wf := flatWavefront(pupilGrid(4), 500e-9)
	out, err := apod.Forward(wf)
	require.NoError(t, err)
	require.Equal(t, complex(0.5, 0.3), out.ElectricField().At(0))

	// Input untouched.
	require.Equal(t, complex(1, 0), wf.ElectricField().At(0))

	back, err := apod.Backward(out)
	require.NoError(t, err)
	require.Equal(t, complex(0.5, -0.3)*complex(0.5, 0.3), back.ElectricField().At(0))
}

func TestApodizerBackwardIsAdjointNotInverse(t *testing.T) {
	// A lossy apodization with nonzero imaginary part: the adjoint round
	// trip scales by |a|^2 != 1 and must not recover the input.
	apod, err := NewApodizer(complex(0.5, 0.3))
	require.NoError(t, err)

	wf := flatWavefront(pupilGrid(4), 500e-9)
	fwd, err := apod.Forward(wf)
	require.NoError(t, err)
	back, err := apod.Backward(fwd)
	require.NoError(t, err)

	require.NotEqual(t, wf.ElectricField().At(0), back.ElectricField().At(0))
	wantMag := 0.5*0.5 + 0.3*0.3
	require.InDelta(t, wantMag, cmplx.Abs(back.ElectricField().At(0)), 1e-12)
}

func TestApodizerFieldParameter(t *testing.T) {
	g := pupilGrid(4)
	mask := field.Uniform(g, 0)
	mask.Data()[5] = 1

	apod, err := NewApodizer(mask)
	require.NoError(t, err)

	out, err := apod.Forward(flatWavefront(g, 500e-9))
	require.NoError(t, err)
	require.Equal(t, complex(0, 0), out.ElectricField().At(0))
	require.Equal(t, complex(1, 0), out.ElectricField().At(5))
}

func TestApodizerWavelengthDependent(t *testing.T) {
	apod, err := NewApodizer(func(wl float64) complex128 {
		return complex(wl, 0)
	})
	require.NoError(t, err)

	g := pupilGrid(4)
	for _, wl := range []float64{0.25, 0.5} {
		out, err := apod.Forward(flatWavefront(g, wl))
		require.NoError(t, err)
		require.Equal(t, complex(wl, 0), out.ElectricField().At(0))
	}
}

func TestApodizerGeneratorParameter(t *testing.T) {
	// A Gaussian aperture generated per grid.
	apod, err := NewApodizer(func(g *field.Grid) (*field.Field, error) {
		data := make([]complex128, g.Size())
		for i := range data {
			r2 := g.X()[i]*g.X()[i] + g.Y()[i]*g.Y()[i]
			data[i] = complex(math.Exp(-r2/1e-6), 0)
		}
		return field.New(data, g)
	})
	require.NoError(t, err)

	g := pupilGrid(5)
	out, err := apod.Forward(flatWavefront(g, 500e-9))
	require.NoError(t, err)
	// The central sample passes unattenuated, the corner is attenuated.
	center := g.Size() / 2
	require.InDelta(t, 1, real(out.ElectricField().At(center)), 1e-12)
	require.Less(t, real(out.ElectricField().At(0)), 1.0)
}

func TestApodizerMutationRecomputes(t *testing.T) {
	apod, err := NewApodizer(0.5)
	require.NoError(t, err)

	wf := flatWavefront(pupilGrid(4), 500e-9)
	out, err := apod.Forward(wf)
	require.NoError(t, err)
	require.Equal(t, complex(0.5, 0), out.ElectricField().At(0))

	require.NoError(t, apod.SetApodization(0.25))
	out, err = apod.Forward(wf)
	require.NoError(t, err)
	require.Equal(t, complex(0.25, 0), out.ElectricField().At(0))
}

func TestPhaseApodizerIsUnimodular(t *testing.T) {
	phase, err := NewPhaseApodizer(math.Pi / 3)
	require.NoError(t, err)

	wf := flatWavefront(pupilGrid(4), 500e-9)
	fwd, err := phase.Forward(wf)
	require.NoError(t, err)
	require.InDelta(t, 1, cmplx.Abs(fwd.ElectricField().At(0)), 1e-12)
	require.InDelta(t, math.Pi/3, cmplx.Phase(fwd.ElectricField().At(0)), 1e-12)

	// exp(i phi) is unitary, so here backward really is the inverse.
	back, err := phase.Backward(fwd)
	require.NoError(t, err)
	require.InDelta(t, 1, real(back.ElectricField().At(0)), 1e-12)
	require.InDelta(t, 0, imag(back.ElectricField().At(0)), 1e-12)
}

func TestPhaseApodizerLazyField(t *testing.T) {
	// A grid-dependent phase map: the derived exp(i phi) parameter stays
	// lazy and resolves per grid.
	phase, err := NewPhaseApodizer(func(g *field.Grid) (*field.Field, error) {
		data := make([]complex128, g.Size())
		for i := range data {
			data[i] = complex(math.Pi*float64(i)/float64(g.Size()), 0)
		}
		return field.New(data, g)
	})
	require.NoError(t, err)

	g := pupilGrid(3)
	out, err := phase.Forward(flatWavefront(g, 500e-9))
	require.NoError(t, err)
	for i := 0; i < g.Size(); i++ {
		require.InDelta(t, 1, cmplx.Abs(out.ElectricField().At(i)), 1e-12)
	}
	require.InDelta(t, math.Pi*4/9, cmplx.Phase(out.ElectricField().At(4)), 1e-12)
}
