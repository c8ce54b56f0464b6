package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

type DataBatch struct {
	X      *mat.Dense
	Labels []string
	Size   int
}

// StreamingReader reads a labeled CSV in fixed-size batches so large files
// never have to fit in memory at once.
type StreamingReader struct {
	file      *os.File
	reader    *csv.Reader
	headers   []string
	labelCol  int
	batchSize int
}

func NewStreamingReader(filename string, labelCol int, batchSize int) (*StreamingReader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	if labelCol < 0 || labelCol >= len(headers) {
		labelCol = len(headers) - 1
	}
	if batchSize <= 0 {
		batchSize = 1000
	}

	return &StreamingReader{
		file:      file,
		reader:    reader,
		headers:   headers,
		labelCol:  labelCol,
		batchSize: batchSize,
	}, nil
}

// ReadBatch returns the next batch, or io.EOF once the file is exhausted.
func (sr *StreamingReader) ReadBatch() (*DataBatch, error) {
	nFeatures := len(sr.headers) - 1
	rows := make([]float64, 0, sr.batchSize*nFeatures)
	labels := make([]string, 0, sr.batchSize)

	for len(labels) < sr.batchSize {
		record, err := sr.reader.Read()
		if err == io.EOF {
			if len(labels) == 0 {
				return nil, io.EOF
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		if len(record) != len(sr.headers) {
			return nil, fmt.Errorf("record has %d columns, expected %d", len(record), len(sr.headers))
		}

		for j, cell := range record {
			if j == sr.labelCol {
				labels = append(labels, cell)
				continue
			}
			val, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", sr.headers[j], err)
			}
			rows = append(rows, val)
		}
	}

	return &DataBatch{
		X:      mat.NewDense(len(labels), nFeatures, rows),
		Labels: labels,
		Size:   len(labels),
	}, nil
}

func (sr *StreamingReader) GetHeaders() []string {
	return sr.headers
}

func (sr *StreamingReader) Close() error {
	return sr.file.Close()
}

// ProcessLargeFile walks a CSV batch by batch, handing each batch to the
// processor.
func ProcessLargeFile(filename string, batchSize int, processor func(*DataBatch) error) error {
	reader, err := NewStreamingReader(filename, -1, batchSize)
	if err != nil {
		return err
	}
	defer reader.Close()

	batchNum := 0
	for {
		batch, err := reader.ReadBatch()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading batch %d: %w", batchNum, err)
		}

		if err := processor(batch); err != nil {
			return fmt.Errorf("error processing batch %d: %w", batchNum, err)
		}

		batchNum++
	}

	return nil
}
