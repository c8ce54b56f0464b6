package models

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// twoClusters builds a cleanly separable two-class dataset: class 0 around
// (0,0) and class 1 around (10,10), both with small isotropic noise.
func twoClusters(perClass int, seed int64) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(seed))

	X := mat.NewDense(2*perClass, 2, nil)
	y := make([]int, 2*perClass)

	for i := 0; i < perClass; i++ {
		X.Set(i, 0, rng.NormFloat64()*0.5)
		X.Set(i, 1, rng.NormFloat64()*0.5)
		y[i] = 0

		X.Set(perClass+i, 0, 10+rng.NormFloat64()*0.5)
		X.Set(perClass+i, 1, 10+rng.NormFloat64()*0.5)
		y[perClass+i] = 1
	}

	return X, y
}

func trainingError(m Model, X *mat.Dense, y []int) float64 {
	predictions, err := m.Predict(X)
	if err != nil {
		return 1
	}
	wrong := 0
	for i, pred := range predictions {
		if pred != y[i] {
			wrong++
		}
	}
	return float64(wrong) / float64(len(y))
}
