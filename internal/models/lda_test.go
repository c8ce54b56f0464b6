package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLinearDiscriminantSeparableClusters(t *testing.T) {
	X, y := twoClusters(50, 1)

	model := NewLinearDiscriminant()
	require.NoError(t, model.Fit(X, y))
	require.Equal(t, []int{0, 1}, model.GetClasses())
	require.InDelta(t, 0.5, model.Priors[0], 1e-12)
	require.InDelta(t, 0.5, model.Priors[1], 1e-12)

	require.Equal(t, 0.0, trainingError(model, X, y))

	predictions, err := model.Predict(mat.NewDense(2, 2, []float64{
		0.1, -0.2,
		9.8, 10.3,
	}))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, predictions)
}

func TestLinearDiscriminantMeans(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 11, 12, 13})
	y := []int{0, 0, 0, 1, 1, 1}

	model := NewLinearDiscriminant()
	require.NoError(t, model.Fit(X, y))

	require.InDelta(t, 2.0, model.Means.At(0, 0), 1e-12)
	require.InDelta(t, 12.0, model.Means.At(1, 0), 1e-12)
}

func TestLinearDiscriminantNeedsMoreSamplesThanClasses(t *testing.T) {
	// n == k leaves zero degrees of freedom for the pooled estimate.
	X := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	y := []int{0, 1}

	model := NewLinearDiscriminant()
	err := model.Fit(X, y)
	require.Error(t, err)

	var singular *SingularMatrixError
	require.ErrorAs(t, err, &singular)
	require.Equal(t, "pooled covariance", singular.Matrix)
}

func TestLinearDiscriminantSingularPooledCovariance(t *testing.T) {
	// Duplicated feature columns give a pooled covariance with zero
	// determinant no matter how many samples there are.
	X := mat.NewDense(6, 2, []float64{
		1, 1,
		2, 2,
		3, 3,
		11, 11,
		12, 12,
		13, 13,
	})
	y := []int{0, 0, 0, 1, 1, 1}

	model := NewLinearDiscriminant()
	err := model.Fit(X, y)
	require.Error(t, err)

	var singular *SingularMatrixError
	require.ErrorAs(t, err, &singular)
	require.Equal(t, "pooled covariance", singular.Matrix)
}

// With identical per-class sample covariances the quadratic term is class
// invariant, so QDA must agree with LDA everywhere.
func TestLinearQuadraticAgreementUnderSharedCovariance(t *testing.T) {
	X := mat.NewDense(8, 2, []float64{
		0, 0,
		2, 0,
		0, 2,
		2, 2,
		6, 6,
		8, 6,
		6, 8,
		8, 8,
	})
	y := []int{0, 0, 0, 0, 1, 1, 1, 1}

	lda := NewLinearDiscriminant()
	require.NoError(t, lda.Fit(X, y))

	qda := NewQuadraticDiscriminant()
	require.NoError(t, qda.Fit(X, y))

	grid := make([]float64, 0, 2*121)
	for i := -2; i <= 8; i++ {
		for j := -2; j <= 8; j++ {
			// The class boundary is the line x+y = 8; the offsets keep
			// every grid point safely off it.
			grid = append(grid, float64(i)+0.25, float64(j)+0.35)
		}
	}
	samples := mat.NewDense(len(grid)/2, 2, grid)

	ldaPred, err := lda.Predict(samples)
	require.NoError(t, err)
	qdaPred, err := qda.Predict(samples)
	require.NoError(t, err)

	require.Equal(t, ldaPred, qdaPred)
}

func TestLinearDiscriminantDeterministicPredict(t *testing.T) {
	X, y := twoClusters(20, 5)

	model := NewLinearDiscriminant()
	require.NoError(t, model.Fit(X, y))

	first, err := model.Predict(X)
	require.NoError(t, err)
	second, err := model.Predict(X)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLinearDiscriminantPredictProba(t *testing.T) {
	X, y := twoClusters(20, 6)

	model := NewLinearDiscriminant()
	require.NoError(t, model.Fit(X, y))

	proba, err := model.PredictProba(X)
	require.NoError(t, err)

	n, k := proba.Dims()
	require.Equal(t, 40, n)
	require.Equal(t, 2, k)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < k; j++ {
			sum += proba.At(i, j)
		}
		require.InDelta(t, 1.0, sum, 1e-9)
	}

	// Deep inside a cluster the posterior should be decisive.
	decisive, err := model.PredictProba(mat.NewDense(1, 2, []float64{0, 0}))
	require.NoError(t, err)
	require.Greater(t, decisive.At(0, 0), 0.99)
}
