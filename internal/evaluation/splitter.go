package evaluation

import (
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
)

type TrainTestSplitter struct {
	testSize   float64
	randomSeed int64
	shuffle    bool
}

func NewTrainTestSplitter(testSize float64, randomSeed int64, shuffle bool) *TrainTestSplitter {
	return &TrainTestSplitter{
		testSize:   testSize,
		randomSeed: randomSeed,
		shuffle:    shuffle,
	}
}

func DefaultTrainTestSplitter() *TrainTestSplitter {
	return NewTrainTestSplitter(0.2, time.Now().UnixNano(), true)
}

func (tts *TrainTestSplitter) Split(X *mat.Dense, y []int) (*mat.Dense, *mat.Dense, []int, []int, error) {
	if err := tts.check(X, y); err != nil {
		return nil, nil, nil, nil, err
	}

	n, _ := X.Dims()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	if tts.shuffle {
		rng := rand.New(rand.NewSource(tts.randomSeed))
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	// Small n can round the test share down to zero rows; promote to one
	// so callers never get a nil test matrix back.
	testCount := int(float64(n) * tts.testSize)
	if testCount == 0 {
		testCount = 1
	}
	trainCount := n - testCount
	if trainCount == 0 {
		return nil, nil, nil, nil, fmt.Errorf("not enough samples to split: %d", n)
	}

	XTrain, yTrain := gatherRows(X, y, indices[:trainCount])
	XTest, yTest := gatherRows(X, y, indices[trainCount:])

	return XTrain, XTest, yTrain, yTest, nil
}

// StratifiedSplit keeps each class's train/test proportion close to the
// requested test size; every class lands at least one test row.
func (tts *TrainTestSplitter) StratifiedSplit(X *mat.Dense, y []int) (*mat.Dense, *mat.Dense, []int, []int, error) {
	if err := tts.check(X, y); err != nil {
		return nil, nil, nil, nil, err
	}

	classIndices := make(map[int][]int)
	var classOrder []int
	for i, label := range y {
		if _, seen := classIndices[label]; !seen {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}

	var trainIndices, testIndices []int

	rng := rand.New(rand.NewSource(tts.randomSeed))
	for _, class := range classOrder {
		indices := classIndices[class]
		if tts.shuffle {
			rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}

		testCount := int(float64(len(indices)) * tts.testSize)
		if testCount == 0 && len(indices) > 0 {
			testCount = 1
		}

		trainCount := len(indices) - testCount
		trainIndices = append(trainIndices, indices[:trainCount]...)
		testIndices = append(testIndices, indices[trainCount:]...)
	}

	if tts.shuffle {
		rng.Shuffle(len(trainIndices), func(i, j int) {
			trainIndices[i], trainIndices[j] = trainIndices[j], trainIndices[i]
		})
		rng.Shuffle(len(testIndices), func(i, j int) {
			testIndices[i], testIndices[j] = testIndices[j], testIndices[i]
		})
	}

	XTrain, yTrain := gatherRows(X, y, trainIndices)
	XTest, yTest := gatherRows(X, y, testIndices)

	return XTrain, XTest, yTrain, yTest, nil
}

func (tts *TrainTestSplitter) check(X *mat.Dense, y []int) error {
	if X == nil {
		return fmt.Errorf("cannot split empty dataset")
	}
	n, _ := X.Dims()
	if n == 0 {
		return fmt.Errorf("cannot split empty dataset")
	}
	if n != len(y) {
		return fmt.Errorf("x and y must have the same length")
	}
	if tts.testSize <= 0 || tts.testSize >= 1 {
		return fmt.Errorf("test size must be between 0 and 1")
	}
	return nil
}

func gatherRows(X *mat.Dense, y []int, indices []int) (*mat.Dense, []int) {
	_, p := X.Dims()
	if len(indices) == 0 {
		return nil, nil
	}

	out := mat.NewDense(len(indices), p, nil)
	labels := make([]int, len(indices))
	for i, idx := range indices {
		for j := 0; j < p; j++ {
			out.Set(i, j, X.At(idx, j))
		}
		labels[i] = y[idx]
	}
	return out, labels
}
