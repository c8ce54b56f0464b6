package data

import (
	"gonum.org/v1/gonum/mat"
)

// BatchProcessor walks an in-memory dataset in row ranges. Used by
// background jobs to report progress between chunks of prediction work.
type BatchProcessor struct {
	batchSize int
}

func NewBatchProcessor(batchSize int) *BatchProcessor {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &BatchProcessor{batchSize: batchSize}
}

func (bp *BatchProcessor) ProcessBatches(X *mat.Dense, y []int, processFn func(X *mat.Dense, y []int, start int) error) error {
	n, p := X.Dims()

	for start := 0; start < n; start += bp.batchSize {
		end := start + bp.batchSize
		if end > n {
			end = n
		}

		batchX := X.Slice(start, end, 0, p).(*mat.Dense)
		var batchY []int
		if y != nil {
			batchY = y[start:end]
		}

		if err := processFn(batchX, batchY, start); err != nil {
			return err
		}
	}

	return nil
}

func (bp *BatchProcessor) SetBatchSize(size int) {
	if size > 0 {
		bp.batchSize = size
	}
}

func (bp *BatchProcessor) GetBatchSize() int {
	return bp.batchSize
}
