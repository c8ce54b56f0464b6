package data

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
)

type DataValidator struct{}

func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

// ValidateDataset rejects anything the classifiers cannot fit: empty data,
// misaligned labels, or non-finite feature values.
func (dv *DataValidator) ValidateDataset(X *mat.Dense, y []int) error {
	if X == nil {
		return fmt.Errorf("dataset is empty")
	}
	n, p := X.Dims()
	if n == 0 {
		return fmt.Errorf("dataset is empty")
	}
	if n != len(y) {
		return fmt.Errorf("feature matrix and labels have different lengths: %d vs %d", n, len(y))
	}
	if p == 0 {
		return fmt.Errorf("features cannot be empty")
	}

	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			v := X.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("non-finite value at sample %d, feature %d", i, j)
			}
		}
	}

	return nil
}

func (dv *DataValidator) ValidateLabels(y []int) error {
	if len(y) == 0 {
		return fmt.Errorf("labels are empty")
	}

	classCount := make(map[int]int)
	for _, label := range y {
		classCount[label]++
	}

	if len(classCount) < 2 {
		return fmt.Errorf("dataset must have at least 2 classes, found %d", len(classCount))
	}

	return nil
}

func (dv *DataValidator) ValidateTrainTestSplit(XTrain, XTest *mat.Dense, yTrain, yTest []int) error {
	if err := dv.ValidateDataset(XTrain, yTrain); err != nil {
		return fmt.Errorf("training set validation failed: %v", err)
	}

	if err := dv.ValidateDataset(XTest, yTest); err != nil {
		return fmt.Errorf("test set validation failed: %v", err)
	}

	_, pTrain := XTrain.Dims()
	_, pTest := XTest.Dims()
	if pTrain != pTest {
		return fmt.Errorf("train and test sets have different feature counts: %d vs %d", pTrain, pTest)
	}

	return nil
}

// GetDatasetStats summarizes the dataset. Per-feature min/max/mean are
// accumulated in decimals so the report is exact regardless of column scale.
func (dv *DataValidator) GetDatasetStats(X *mat.Dense, y []int) map[string]any {
	if X == nil {
		return map[string]any{}
	}
	n, p := X.Dims()
	if n == 0 {
		return map[string]any{}
	}

	stats := make(map[string]any)
	stats["samples"] = n
	stats["features"] = p

	classCount := make(map[int]int)
	for _, label := range y {
		classCount[label]++
	}
	stats["classes"] = len(classCount)
	stats["class_distribution"] = classCount

	featureStats := make([]map[string]decimal.Decimal, p)
	for j := 0; j < p; j++ {
		min := decimal.NewFromFloat(X.At(0, j))
		max := min
		sum := decimal.Zero
		for i := 0; i < n; i++ {
			v := decimal.NewFromFloat(X.At(i, j))
			if v.LessThan(min) {
				min = v
			}
			if v.GreaterThan(max) {
				max = v
			}
			sum = sum.Add(v)
		}
		featureStats[j] = map[string]decimal.Decimal{
			"min":  min,
			"max":  max,
			"mean": sum.Div(decimal.NewFromInt(int64(n))),
		}
	}
	stats["feature_stats"] = featureStats

	return stats
}
