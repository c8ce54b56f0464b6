package models

import (
	"gonum.org/v1/gonum/mat"
)

// LeastSquares classifies by regressing the class-indicator matrix on the
// features and taking the per-row argmax of the fitted scores. The design
// matrix is augmented with a constant column, so Beta carries a bias row.
type LeastSquares struct {
	BaseModel
	Beta      *mat.Dense // (p+1)×k coefficient matrix; row 0 is the bias
	NFeatures int
}

func NewLeastSquares() *LeastSquares {
	return &LeastSquares{
		BaseModel: BaseModel{
			Name:   "LeastSquares",
			Params: map[string]any{},
		},
	}
}

func (ls *LeastSquares) Fit(X *mat.Dense, y []int) error {
	if err := checkFitInput(X, y); err != nil {
		return err
	}

	indicator, classes, err := IndicatorMatrix(y)
	if err != nil {
		return err
	}
	ls.Classes = classes

	_, p := X.Dims()
	design := withIntercept(X)

	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	// The normal equations need an invertible cross-product. Rank-deficient
	// designs (collinear columns, a constant feature duplicating the
	// intercept, p ≥ n) fail here rather than being patched with a
	// pseudo-inverse.
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		ls.Classes = nil
		return &SingularMatrixError{
			Matrix: "X^T X",
			Rows:   p + 1,
			Cols:   p + 1,
			Reason: "design matrix is rank-deficient (collinear features or fewer samples than features)",
		}
	}

	var xty mat.Dense
	xty.Mul(design.T(), indicator)

	ls.Beta = &mat.Dense{}
	ls.Beta.Mul(&xtxInv, &xty)
	ls.NFeatures = p

	return nil
}

func (ls *LeastSquares) scores(X *mat.Dense) (*mat.Dense, error) {
	if ls.Beta == nil {
		return nil, &InvalidInputError{Reason: "model is not fitted"}
	}
	if err := checkPredictInput(X, ls.NFeatures); err != nil {
		return nil, err
	}

	var scores mat.Dense
	scores.Mul(withIntercept(X), ls.Beta)
	return &scores, nil
}

// withIntercept prepends a constant 1s column. Without the bias term the
// fitted scores all pass through zero at the origin, so a class centered
// there is unrepresentable.
func withIntercept(X *mat.Dense) *mat.Dense {
	n, p := X.Dims()
	aug := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		aug.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			aug.Set(i, j+1, X.At(i, j))
		}
	}
	return aug
}

func (ls *LeastSquares) Predict(X *mat.Dense) ([]int, error) {
	scores, err := ls.scores(X)
	if err != nil {
		return nil, err
	}
	return argmaxPredict(scores, ls.Classes), nil
}

// PredictProba treats the fitted indicator scores as posterior estimates.
// Scores can leave [0,1] on extrapolated inputs, so they are clamped at
// zero and renormalized per row; a row of all zeros degrades to uniform.
func (ls *LeastSquares) PredictProba(X *mat.Dense) (*mat.Dense, error) {
	scores, err := ls.scores(X)
	if err != nil {
		return nil, err
	}

	n, k := scores.Dims()
	proba := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		row := scores.RawRowView(i)
		sum := 0.0
		for j := 0; j < k; j++ {
			v := row[j]
			if v < 0 {
				v = 0
			}
			proba.Set(i, j, v)
			sum += v
		}
		if sum == 0 {
			for j := 0; j < k; j++ {
				proba.Set(i, j, 1/float64(k))
			}
			continue
		}
		for j := 0; j < k; j++ {
			proba.Set(i, j, proba.At(i, j)/sum)
		}
	}

	return proba, nil
}

func (ls *LeastSquares) GetClasses() []int {
	return ls.Classes
}

func (ls *LeastSquares) Reset() {
	ls.Beta = nil
	ls.Classes = nil
	ls.NFeatures = 0
}
