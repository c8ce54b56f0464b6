package data

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestValidateDataset(t *testing.T) {
	validator := NewDataValidator()

	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, validator.ValidateDataset(X, []int{0, 1, 0}))

	require.Error(t, validator.ValidateDataset(nil, nil))
	require.Error(t, validator.ValidateDataset(X, []int{0, 1}))

	bad := mat.NewDense(2, 2, []float64{1, math.NaN(), 3, 4})
	require.Error(t, validator.ValidateDataset(bad, []int{0, 1}))

	inf := mat.NewDense(2, 2, []float64{1, 2, math.Inf(1), 4})
	require.Error(t, validator.ValidateDataset(inf, []int{0, 1}))
}

func TestValidateLabels(t *testing.T) {
	validator := NewDataValidator()

	require.NoError(t, validator.ValidateLabels([]int{0, 1, 0}))
	require.Error(t, validator.ValidateLabels(nil))
	require.Error(t, validator.ValidateLabels([]int{0, 0, 0}), "single class")
}

func TestGetDatasetStats(t *testing.T) {
	validator := NewDataValidator()

	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	stats := validator.GetDatasetStats(X, []int{0, 0, 1, 1})

	require.Equal(t, 4, stats["samples"])
	require.Equal(t, 1, stats["features"])
	require.Equal(t, 2, stats["classes"])

	dist := stats["class_distribution"].(map[int]int)
	require.Equal(t, 2, dist[0])
	require.Equal(t, 2, dist[1])
}
