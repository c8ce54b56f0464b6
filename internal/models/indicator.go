package models

import (
	"gonum.org/v1/gonum/mat"
)

// IndicatorMatrix transforms a label vector into an n×k 0/1 membership
// matrix. Column j corresponds to the j-th class in ascending order, the
// same order returned alongside the matrix. Every row holds exactly one 1.
func IndicatorMatrix(y []int) (*mat.Dense, []int, error) {
	if len(y) == 0 {
		return nil, nil, &InvalidInputError{Reason: "label vector is empty"}
	}

	classes := ExtractClasses(y)
	classIdx := make(map[int]int, len(classes))
	for j, class := range classes {
		classIdx[class] = j
	}

	indicator := mat.NewDense(len(y), len(classes), nil)
	for i, label := range y {
		indicator.Set(i, classIdx[label], 1)
	}

	return indicator, classes, nil
}
