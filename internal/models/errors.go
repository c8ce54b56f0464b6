package models

import "fmt"

// InvalidInputError reports a malformed fit or predict input, detected
// before any linear algebra runs.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// SingularMatrixError reports a matrix that could not be inverted during
// fit. Matrix names which one failed (cross-product, pooled covariance,
// or a per-class covariance) so the caller can diagnose the data problem.
type SingularMatrixError struct {
	Matrix string
	Rows   int
	Cols   int
	Reason string
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("singular matrix %s (%dx%d): %s", e.Matrix, e.Rows, e.Cols, e.Reason)
}
