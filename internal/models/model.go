package models

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Model is the capability every classifier in this package implements.
// Fit learns from a feature matrix and encoded labels; Predict returns one
// class code per input row, always drawn from the classes seen at fit time.
type Model interface {
	Fit(X *mat.Dense, y []int) error
	Predict(X *mat.Dense) ([]int, error)
	PredictProba(X *mat.Dense) (*mat.Dense, error)
	GetType() string
	GetName() string
	GetParams() map[string]any
	GetClasses() []int
	Reset()
}

type BaseModel struct {
	Name    string
	Params  map[string]any
	Classes []int
}

func (bm *BaseModel) GetType() string {
	return bm.Name
}

func (bm *BaseModel) GetName() string {
	return bm.Name
}

func (bm *BaseModel) GetParams() map[string]any {
	return bm.Params
}

// ExtractClasses returns the distinct labels in ascending order. The class
// order fixed here determines indicator-matrix columns, score columns and
// the tie-break order everywhere else.
func ExtractClasses(y []int) []int {
	classMap := make(map[int]bool)
	for _, label := range y {
		classMap[label] = true
	}

	classes := make([]int, 0, len(classMap))
	for class := range classMap {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	return classes
}

// argmaxPredict resolves an m×k score matrix to class labels, row by row.
// floats.MaxIdx returns the first maximal index, so exact ties resolve to
// the lowest-sorted class.
func argmaxPredict(scores *mat.Dense, classes []int) []int {
	n, _ := scores.Dims()
	predictions := make([]int, n)
	for i := 0; i < n; i++ {
		predictions[i] = classes[floats.MaxIdx(scores.RawRowView(i))]
	}
	return predictions
}

func checkFitInput(X *mat.Dense, y []int) error {
	if X == nil {
		return &InvalidInputError{Reason: "feature matrix is nil"}
	}
	n, p := X.Dims()
	if n == 0 {
		return &InvalidInputError{Reason: "feature matrix has no rows"}
	}
	if p == 0 {
		return &InvalidInputError{Reason: "feature matrix has no columns"}
	}
	if len(y) == 0 {
		return &InvalidInputError{Reason: "label vector is empty"}
	}
	if len(y) != n {
		return &InvalidInputError{Reason: "feature matrix and labels have different lengths"}
	}
	return nil
}

func checkPredictInput(X *mat.Dense, nFeatures int) error {
	if X == nil {
		return &InvalidInputError{Reason: "feature matrix is nil"}
	}
	n, p := X.Dims()
	if n == 0 {
		return &InvalidInputError{Reason: "feature matrix has no rows"}
	}
	if p != nFeatures {
		return &InvalidInputError{Reason: "feature count does not match fitted model"}
	}
	return nil
}
