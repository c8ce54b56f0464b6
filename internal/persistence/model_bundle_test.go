package persistence

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Benxzz/ESL/internal/models"
	"github.com/Benxzz/ESL/internal/preprocessing"
)

func clusters(perClass int, seed int64) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(seed))

	X := mat.NewDense(2*perClass, 2, nil)
	y := make([]int, 2*perClass)
	for i := 0; i < perClass; i++ {
		X.Set(i, 0, rng.NormFloat64())
		X.Set(i, 1, rng.NormFloat64())
		y[i] = 0
		X.Set(perClass+i, 0, 8+rng.NormFloat64())
		X.Set(perClass+i, 1, 8+rng.NormFloat64())
		y[perClass+i] = 1
	}
	return X, y
}

// A saved bundle must classify exactly like the model it was built from.
func TestModelBundleRoundTrip(t *testing.T) {
	X, y := clusters(30, 1)

	for _, algorithm := range models.Algorithms() {
		model, err := models.CreateModel(models.ModelConfig{Algorithm: algorithm})
		require.NoError(t, err)
		require.NoError(t, model.Fit(X, y))

		want, err := model.Predict(X)
		require.NoError(t, err)

		encoder := preprocessing.NewLabelEncoder()
		_, err = encoder.FitTransform([]string{"neg", "pos"})
		require.NoError(t, err)

		bundle := NewModelBundle(model)
		bundle.LabelEncoder = encoder
		bundle.Metadata.Dataset = "clusters.csv"
		bundle.Metadata.Accuracy = 1.0
		bundle.Metadata.TrainingTime = 5 * time.Millisecond

		path := filepath.Join(t.TempDir(), algorithm+".model")
		require.NoError(t, bundle.Save(path))

		loaded, err := LoadModelBundle(path)
		require.NoError(t, err)

		require.Equal(t, model.GetName(), loaded.Model.GetName())
		require.Equal(t, model.GetClasses(), loaded.Model.GetClasses())
		require.Equal(t, "clusters.csv", loaded.Metadata.Dataset)
		require.Equal(t, []string{"neg", "pos"}, loaded.LabelEncoder.Labels())

		got, err := loaded.Model.Predict(X)
		require.NoError(t, err)
		require.Equal(t, want, got, "%s predictions must survive the round trip", algorithm)
	}
}

func TestModelBundleWithScaler(t *testing.T) {
	X, y := clusters(20, 2)

	scaler := preprocessing.NewScaler("standard")
	scaled, err := scaler.FitTransform(X)
	require.NoError(t, err)

	model := models.NewLinearDiscriminant()
	require.NoError(t, model.Fit(scaled, y))

	bundle := NewModelBundle(model)
	bundle.Scaler = scaler

	path := filepath.Join(t.TempDir(), "scaled.model")
	require.NoError(t, bundle.Save(path))

	loaded, err := LoadModelBundle(path)
	require.NoError(t, err)
	require.NotNil(t, loaded.Scaler)

	rescaled, err := loaded.Scaler.Transform(X)
	require.NoError(t, err)
	require.True(t, mat.EqualApprox(scaled, rescaled, 1e-12))
}

func TestLoadModelBundleMissingFile(t *testing.T) {
	_, err := LoadModelBundle(filepath.Join(t.TempDir(), "nope.model"))
	require.Error(t, err)
}
