package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestScalerMinMax(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 100,
		2, 200,
		3, 300,
		4, 400,
	})

	scaler := NewScaler("minmax")
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	n, p := scaled.Dims()
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			require.GreaterOrEqual(t, scaled.At(i, j), 0.0)
			require.LessOrEqual(t, scaled.At(i, j), 1.0)
		}
		require.Equal(t, 0.0, scaled.At(0, j))
		require.Equal(t, 1.0, scaled.At(n-1, j))
	}
}

func TestScalerStandard(t *testing.T) {
	X := mat.NewDense(5, 2, []float64{
		1, 10,
		2, 30,
		3, 50,
		4, 70,
		5, 90,
	})

	scaler := NewScaler("standard")
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	n, p := scaled.Dims()
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, scaled)
		mean, std := stat.MeanStdDev(col, nil)
		require.InDelta(t, 0.0, mean, 1e-9)
		require.InDelta(t, 1.0, std, 1e-9)
	}
}

func TestScalerConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{7, 7, 7})

	minmax := NewScaler("minmax")
	scaled, err := minmax.FitTransform(X)
	require.NoError(t, err)
	require.Equal(t, 0.0, scaled.At(1, 0))

	standard := NewScaler("standard")
	scaled, err = standard.FitTransform(X)
	require.NoError(t, err)
	require.Equal(t, 0.0, scaled.At(1, 0))
}

func TestScalerRawPassThrough(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	scaler := NewScaler("raw")
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)
	require.True(t, mat.Equal(X, scaled))
}

func TestScalerErrors(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := NewScaler("bogus").FitTransform(X)
	require.Error(t, err)

	_, err = NewScaler("minmax").Transform(X)
	require.Error(t, err, "transform before fit")

	scaler := NewScaler("minmax")
	_, err = scaler.FitTransform(X)
	require.NoError(t, err)
	_, err = scaler.Transform(mat.NewDense(2, 3, nil))
	require.Error(t, err, "feature count mismatch")
}
