package elements

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/photonlab/refrakt/internal/agnostic"
	"github.com/photonlab/refrakt/internal/field"
)

func TestMagnifierGridRoundTrip(t *testing.T) {
	// Chromatic magnification: the grid mapping must round-trip to the
	// identical grid for several (grid, wavelength) pairs.
	mag, err := NewMagnifier(func(wl float64) float64 { return 1 + wl })
	require.NoError(t, err)

	pairs := []struct {
		grid *field.Grid
		wl   float64
	}{
		{pupilGrid(4), 0.5},
		{pupilGrid(8), 0.5},
		{pupilGrid(4), 2.0},
	}
	for _, pc := range pairs {
		out, err := mag.OutputGrid(pc.grid, pc.wl)
		require.NoError(t, err)
		require.NotSame(t, pc.grid, out)

		in, err := mag.InputGrid(out, pc.wl)
		require.NoError(t, err)
		require.Same(t, pc.grid, in)

		roundTrip, err := mag.OutputGrid(in, pc.wl)
		require.NoError(t, err)
		require.Same(t, out, roundTrip)
	}
}

func TestMagnifierForwardConservesPower(t *testing.T) {
	mag, err := NewMagnifier(2.0)
	require.NoError(t, err)

	wf := flatWavefront(pupilGrid(4), 500e-9)
	out, err := mag.Forward(wf)
	require.NoError(t, err)

	require.InDelta(t, wf.Power(), out.Power(), 1e-15)
	require.Equal(t, [2]float64{2e-3, 2e-3}, out.ElectricField().Grid().Delta())
}

func TestMagnifierAdjointRoundTripAttenuates(t *testing.T) {
	mag, err := NewMagnifier(2.0)
	require.NoError(t, err)

	wf := flatWavefront(pupilGrid(4), 500e-9)
	fwd, err := mag.Forward(wf)
	require.NoError(t, err)
	back, err := mag.Backward(fwd)
	require.NoError(t, err)

	require.Same(t, wf.ElectricField().Grid(), back.ElectricField().Grid())
	require.Equal(t, complex(0.25, 0), back.ElectricField().At(0))
}

func TestMagnifierSharedInstanceAcrossDirections(t *testing.T) {
	mag, err := NewMagnifier(3.0)
	require.NoError(t, err)

	g := pupilGrid(4)
	wf := flatWavefront(g, 500e-9)
	fwd, err := mag.Forward(wf)
	require.NoError(t, err)

	// Backward on the forward result reuses the same resolution context.
	require.Equal(t, 1, mag.Operator().Cache().Len())
	_, err = mag.Backward(fwd)
	require.NoError(t, err)
	require.Equal(t, 1, mag.Operator().Cache().Len())
}

func TestMagnifierMutationDropsDerivedGrids(t *testing.T) {
	mag, err := NewMagnifier(2.0)
	require.NoError(t, err)

	g := pupilGrid(4)
	out1, err := mag.OutputGrid(g, 500e-9)
	require.NoError(t, err)
	require.Equal(t, [2]float64{2e-3, 2e-3}, out1.Delta())

	require.NoError(t, mag.SetMagnification(4.0))
	out2, err := mag.OutputGrid(g, 500e-9)
	require.NoError(t, err)
	require.NotSame(t, out1, out2)
	require.Equal(t, [2]float64{4e-3, 4e-3}, out2.Delta())
}

func TestMagnifierRejectsGridDependentMagnification(t *testing.T) {
	_, err := NewMagnifier(func(g *field.Grid) (*field.Field, error) {
		return field.Uniform(g, 2), nil
	})
	require.Error(t, err)
}

func TestMagnifierRejectsNonScalarResolution(t *testing.T) {
	// A magnification resolving to a field is only detectable at
	// evaluation time and must fail the call, not get coerced.
	mag, err := NewMagnifier(agnostic.OfWavelength(func(wl float64) (agnostic.Value, error) {
		return agnostic.FieldValue(field.Uniform(pupilGrid(2), 2)), nil
	}))
	require.NoError(t, err)

	_, err = mag.Forward(flatWavefront(pupilGrid(4), 500e-9))
	require.Error(t, err)
}
