package preprocessing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLabelEncoderSortedCodes(t *testing.T) {
	encoder := NewLabelEncoder()
	codes, err := encoder.FitTransform([]string{"setosa", "virginica", "versicolor", "setosa"})
	require.NoError(t, err)

	// Codes follow ascending label order, so class order downstream is
	// the label sort order.
	require.Equal(t, []int{0, 2, 1, 0}, codes)
	require.Equal(t, []string{"setosa", "versicolor", "virginica"}, encoder.Labels())
}

func TestLabelEncoderRoundTrip(t *testing.T) {
	encoder := NewLabelEncoder()
	labels := []string{"b", "a", "c", "a", "b"}
	codes, err := encoder.FitTransform(labels)
	require.NoError(t, err)

	decoded, err := encoder.InverseTransform(codes)
	require.NoError(t, err)
	require.Equal(t, labels, decoded)
}

func TestLabelEncoderUnknownLabel(t *testing.T) {
	encoder := NewLabelEncoder()
	_, err := encoder.FitTransform([]string{"a", "b"})
	require.NoError(t, err)

	_, err = encoder.Transform([]string{"z"})
	require.Error(t, err)

	_, err = encoder.InverseTransform([]int{42})
	require.Error(t, err)
}

func TestLabelEncoderUnfitted(t *testing.T) {
	encoder := NewLabelEncoder()
	_, err := encoder.Transform([]string{"a"})
	require.Error(t, err)
}

func TestLabelEncoderSaveLoad(t *testing.T) {
	encoder := NewLabelEncoder()
	_, err := encoder.FitTransform([]string{"left", "right", "middle"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "encoder.gob")
	require.NoError(t, encoder.Save(path))

	loaded := NewLabelEncoder()
	require.NoError(t, loaded.Load(path))
	require.Equal(t, encoder.ClassToInt, loaded.ClassToInt)
	require.Equal(t, encoder.IntToClass, loaded.IntToClass)
}
