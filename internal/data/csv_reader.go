package data

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"

	"github.com/Benxzz/ESL/internal/preprocessing"
)

// CSVReader loads a whole numeric table at once. The last column is the
// label; every other column must parse as a number. Parsing goes through
// decimal.NewFromString so malformed cells are rejected instead of being
// silently zeroed.
type CSVReader struct {
	filename string
}

func NewCSVReader(filename string) (*CSVReader, error) {
	return &CSVReader{filename: filename}, nil
}

func (cr *CSVReader) LoadData() (*mat.Dense, []int, []string, *preprocessing.LabelEncoder, error) {
	file, err := os.Open(cr.filename)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if len(records) < 2 {
		return nil, nil, nil, nil, fmt.Errorf("insufficient data in file")
	}

	headers := records[0][:len(records[0])-1]
	rows := records[1:]
	nFeatures := len(records[0]) - 1

	X := mat.NewDense(len(rows), nFeatures, nil)
	labels := make([]string, len(rows))

	for i, record := range rows {
		if len(record) != nFeatures+1 {
			return nil, nil, nil, nil, fmt.Errorf("row %d has %d columns, expected %d", i+1, len(record), nFeatures+1)
		}
		for j := 0; j < nFeatures; j++ {
			val, err := parseCell(record[j])
			if err != nil {
				return nil, nil, nil, nil, fmt.Errorf("row %d, column %q: %w", i+1, records[0][j], err)
			}
			X.Set(i, j, val)
		}
		labels[i] = record[nFeatures]
	}

	encoder := preprocessing.NewLabelEncoder()
	y, err := encoder.FitTransform(labels)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return X, y, headers, encoder, nil
}

// parseCell parses one numeric cell exactly, then converts for the algebra.
func parseCell(cell string) (float64, error) {
	dec, err := decimal.NewFromString(cell)
	if err != nil {
		return 0, fmt.Errorf("non-numeric value %q", cell)
	}
	val, _ := dec.Float64()
	return val, nil
}
