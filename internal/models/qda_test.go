package models

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestQuadraticDiscriminantSeparableClusters(t *testing.T) {
	X, y := twoClusters(50, 1)

	model := NewQuadraticDiscriminant()
	require.NoError(t, model.Fit(X, y))
	require.Equal(t, []int{0, 1}, model.GetClasses())

	require.Equal(t, 0.0, trainingError(model, X, y))

	predictions, err := model.Predict(mat.NewDense(2, 2, []float64{
		0.1, -0.2,
		9.8, 10.3,
	}))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, predictions)
}

// A class with fewer rows than features+1 cannot produce an invertible
// covariance; QDA must refuse while LDA, pooling across classes, still fits.
func TestQuadraticDiscriminantInsufficientClassSamples(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	const p = 3
	X := mat.NewDense(12, p, nil)
	y := make([]int, 12)

	// Class 0: only two rows, below the p+1 = 4 floor.
	for i := 0; i < 2; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, rng.NormFloat64())
		}
		y[i] = 0
	}
	for i := 2; i < 12; i++ {
		for j := 0; j < p; j++ {
			X.Set(i, j, 5+rng.NormFloat64())
		}
		y[i] = 1
	}

	qda := NewQuadraticDiscriminant()
	err := qda.Fit(X, y)
	require.Error(t, err)

	var singular *SingularMatrixError
	require.ErrorAs(t, err, &singular)
	require.Equal(t, "class 0 covariance", singular.Matrix)

	lda := NewLinearDiscriminant()
	require.NoError(t, lda.Fit(X, y), "pooled covariance has enough degrees of freedom")
}

func TestQuadraticDiscriminantPredictionsStayInClassSet(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	X := mat.NewDense(60, 2, nil)
	y := make([]int, 60)
	centers := [][2]float64{{0, 0}, {6, 0}, {3, 6}}
	for i := 0; i < 60; i++ {
		c := i % 3
		X.Set(i, 0, centers[c][0]+rng.NormFloat64())
		X.Set(i, 1, centers[c][1]+rng.NormFloat64())
		y[i] = c * 10 // deliberately non-contiguous codes
	}

	model := NewQuadraticDiscriminant()
	require.NoError(t, model.Fit(X, y))
	require.Equal(t, []int{0, 10, 20}, model.GetClasses())

	samples := mat.NewDense(50, 2, nil)
	for i := 0; i < 50; i++ {
		samples.Set(i, 0, rng.Float64()*20-7)
		samples.Set(i, 1, rng.Float64()*20-7)
	}

	predictions, err := model.Predict(samples)
	require.NoError(t, err)
	for _, pred := range predictions {
		require.Contains(t, []int{0, 10, 20}, pred)
	}
}

func TestQuadraticDiscriminantDeterministicPredict(t *testing.T) {
	X, y := twoClusters(20, 9)

	model := NewQuadraticDiscriminant()
	require.NoError(t, model.Fit(X, y))

	first, err := model.Predict(X)
	require.NoError(t, err)
	second, err := model.Predict(X)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestQuadraticDiscriminantInputValidation(t *testing.T) {
	model := NewQuadraticDiscriminant()

	var invalid *InvalidInputError
	err := model.Fit(nil, nil)
	require.ErrorAs(t, err, &invalid)

	_, err = model.Predict(mat.NewDense(1, 2, nil))
	require.ErrorAs(t, err, &invalid, "predict before fit")

	X, y := twoClusters(10, 13)
	require.NoError(t, model.Fit(X, y))

	_, err = model.Predict(mat.NewDense(1, 5, nil))
	require.ErrorAs(t, err, &invalid, "feature count mismatch at predict")
}
