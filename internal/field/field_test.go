package field

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldConstruction(t *testing.T) {
	g := NewRegularGrid([2]int{2, 2}, [2]float64{1, 1})

	t.Run("New", func(t *testing.T) {
		f, err := New([]complex128{1, 2, 3, 4}, g)
		require.NoError(t, err)
		require.Same(t, g, f.Grid())
		require.Equal(t, complex(3, 0), f.At(2))
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		_, err := New([]complex128{1, 2}, g)
		require.Error(t, err)
	})

	t.Run("Uniform", func(t *testing.T) {
		f := Uniform(g, complex(0, 1))
		require.Equal(t, 4, f.Len())
		require.Equal(t, complex(0, 1), f.At(3))
	})
}

func TestFieldOps(t *testing.T) {
	g := NewRegularGrid([2]int{2, 2}, [2]float64{1, 1})
	f, err := New([]complex128{1, 2i, -1, 1 + 1i}, g)
	require.NoError(t, err)

	t.Run("Mul", func(t *testing.T) {
		other := Uniform(g, 2)
		out, err := f.Mul(other)
		require.NoError(t, err)
		require.Equal(t, complex(0, 4), out.At(1))
		// f untouched
		require.Equal(t, complex(0, 2), f.At(1))
	})

	t.Run("MulShapeMismatch", func(t *testing.T) {
		other := Uniform(NewRegularGrid([2]int{3, 3}, [2]float64{1, 1}), 1)
		_, err := f.Mul(other)
		require.Error(t, err)
	})

	t.Run("Scale", func(t *testing.T) {
		out := f.Scale(1i)
		require.Equal(t, complex(0, 1), out.At(0))
		require.Equal(t, complex(-2, 0), out.At(1))
	})

	t.Run("Conj", func(t *testing.T) {
		out := f.Conj()
		require.Equal(t, complex(0, -2), out.At(1))
		require.Equal(t, complex(1, -1), out.At(3))
	})

	t.Run("Sum", func(t *testing.T) {
		require.Equal(t, complex(1, 3), f.Sum())
	})

	t.Run("Map", func(t *testing.T) {
		out := f.Map(func(c complex128) complex128 { return c + 1 })
		require.Equal(t, complex(2, 0), out.At(0))
	})

	t.Run("CopyIsIndependent", func(t *testing.T) {
		c := f.Copy()
		c.Data()[0] = 99
		require.Equal(t, complex(1, 0), f.At(0))
	})

	t.Run("Rebind", func(t *testing.T) {
		h := NewRegularGrid([2]int{2, 2}, [2]float64{5, 5})
		out, err := f.Rebind(h)
		require.NoError(t, err)
		require.Same(t, h, out.Grid())
		require.Equal(t, f.At(0), out.At(0))

		_, err = f.Rebind(NewRegularGrid([2]int{3, 3}, [2]float64{1, 1}))
		require.Error(t, err)
	})
}
