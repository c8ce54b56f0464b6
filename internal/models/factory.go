package models

import (
	"fmt"
)

type ModelConfig struct {
	Algorithm string
}

// CreateModel builds a classifier by algorithm name. None of the three take
// hyperparameters; the config struct exists so callers configure every
// algorithm through one door.
func CreateModel(config ModelConfig) (Model, error) {
	switch config.Algorithm {
	case "lsq", "leastsquares":
		return NewLeastSquares(), nil

	case "lda", "linear":
		return NewLinearDiscriminant(), nil

	case "qda", "quadratic":
		return NewQuadraticDiscriminant(), nil

	default:
		return nil, fmt.Errorf("unknown algorithm: %s", config.Algorithm)
	}
}

func DefaultConfig(algorithm string) ModelConfig {
	return ModelConfig{Algorithm: algorithm}
}

// Algorithms lists the supported algorithm names in display order.
func Algorithms() []string {
	return []string{"lsq", "lda", "qda"}
}
