package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCSVReaderLoadData(t *testing.T) {
	path := writeCSV(t, "x1,x2,species\n1.5,2.5,b\n3.0,4.0,a\n5.5,6.5,b\n")

	reader, err := NewCSVReader(path)
	require.NoError(t, err)

	X, y, headers, encoder, err := reader.LoadData()
	require.NoError(t, err)

	require.Equal(t, []string{"x1", "x2"}, headers)

	n, p := X.Dims()
	require.Equal(t, 3, n)
	require.Equal(t, 2, p)
	require.Equal(t, 1.5, X.At(0, 0))
	require.Equal(t, 6.5, X.At(2, 1))

	// "a" sorts before "b", so it gets code 0.
	require.Equal(t, []int{1, 0, 1}, y)
	require.Equal(t, []string{"a", "b"}, encoder.Labels())
}

func TestCSVReaderRejectsNonNumeric(t *testing.T) {
	path := writeCSV(t, "x1,x2,label\n1.0,oops,a\n2.0,3.0,b\n")

	reader, err := NewCSVReader(path)
	require.NoError(t, err)

	_, _, _, _, err = reader.LoadData()
	require.Error(t, err)
	require.Contains(t, err.Error(), "x2")
	require.Contains(t, err.Error(), "oops")
}

func TestCSVReaderRejectsEmptyFile(t *testing.T) {
	path := writeCSV(t, "x1,x2,label\n")

	reader, err := NewCSVReader(path)
	require.NoError(t, err)

	_, _, _, _, err = reader.LoadData()
	require.Error(t, err)
}

func TestStreamingReaderBatches(t *testing.T) {
	path := writeCSV(t, "x1,x2,label\n1,2,a\n3,4,b\n5,6,a\n7,8,b\n9,10,a\n")

	reader, err := NewStreamingReader(path, -1, 2)
	require.NoError(t, err)
	defer reader.Close()

	var sizes []int
	var labels []string
	for {
		batch, err := reader.ReadBatch()
		if err != nil {
			break
		}
		sizes = append(sizes, batch.Size)
		labels = append(labels, batch.Labels...)
	}

	require.Equal(t, []int{2, 2, 1}, sizes)
	require.Equal(t, []string{"a", "b", "a", "b", "a"}, labels)
}

func TestProcessLargeFile(t *testing.T) {
	path := writeCSV(t, "x1,label\n1,a\n2,b\n3,a\n")

	total := 0
	err := ProcessLargeFile(path, 2, func(batch *DataBatch) error {
		total += batch.Size
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, total)
}
