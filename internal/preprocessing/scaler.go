package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler rescales feature columns. "minmax"/"normalized" maps each column
// to [0,1]; "standard"/"standardized" centers to zero mean and unit
// standard deviation; "raw"/"none" passes data through.
type Scaler struct {
	ScaleType   string
	IsFitted    bool
	FeatureMin  []float64
	FeatureMax  []float64
	FeatureMean []float64
	FeatureStd  []float64
}

func NewScaler(scaleType string) *Scaler {
	return &Scaler{
		ScaleType: scaleType,
		IsFitted:  false,
	}
}

func (s *Scaler) Fit(X *mat.Dense) error {
	if X == nil {
		return fmt.Errorf("empty dataset")
	}
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return fmt.Errorf("empty dataset")
	}

	s.FeatureMin = make([]float64, p)
	s.FeatureMax = make([]float64, p)
	s.FeatureMean = make([]float64, p)
	s.FeatureStd = make([]float64, p)

	switch s.ScaleType {
	case "minmax", "normalized":
		col := make([]float64, n)
		for j := 0; j < p; j++ {
			mat.Col(col, j, X)
			s.FeatureMin[j] = floats.Min(col)
			s.FeatureMax[j] = floats.Max(col)
		}
	case "standard", "standardized":
		col := make([]float64, n)
		for j := 0; j < p; j++ {
			mat.Col(col, j, X)
			mean, std := stat.MeanStdDev(col, nil)
			if std == 0 {
				std = 1
			}
			s.FeatureMean[j] = mean
			s.FeatureStd[j] = std
		}
	case "raw", "none":
	default:
		return fmt.Errorf("unknown scale type: %s", s.ScaleType)
	}

	s.IsFitted = true
	return nil
}

func (s *Scaler) Transform(X *mat.Dense) (*mat.Dense, error) {
	if !s.IsFitted {
		return nil, fmt.Errorf("scaler must be fitted before transform")
	}

	n, p := X.Dims()
	if p != len(s.FeatureMin) {
		return nil, fmt.Errorf("feature count does not match fitted scaler: %d vs %d", p, len(s.FeatureMin))
	}
	result := mat.NewDense(n, p, nil)

	switch s.ScaleType {
	case "raw", "none":
		result.Copy(X)
	case "minmax", "normalized":
		for j := 0; j < p; j++ {
			span := s.FeatureMax[j] - s.FeatureMin[j]
			for i := 0; i < n; i++ {
				if span == 0 {
					result.Set(i, j, 0)
					continue
				}
				result.Set(i, j, (X.At(i, j)-s.FeatureMin[j])/span)
			}
		}
	case "standard", "standardized":
		for j := 0; j < p; j++ {
			for i := 0; i < n; i++ {
				result.Set(i, j, (X.At(i, j)-s.FeatureMean[j])/s.FeatureStd[j])
			}
		}
	}

	return result, nil
}

func (s *Scaler) FitTransform(X *mat.Dense) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
