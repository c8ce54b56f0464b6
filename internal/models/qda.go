package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// QuadraticDiscriminant fits class priors, per-class means and a covariance
// per class. Each covariance, its inverse and its log-determinant are cached
// at fit time; Predict still has to evaluate the full quadratic form per
// class per row, which is what separates it from LinearDiscriminant.
type QuadraticDiscriminant struct {
	BaseModel
	Priors    []float64
	Means     *mat.Dense // k×p, row per class
	CovInv    []*mat.SymDense
	LogDets   []float64
	Constants []float64
	NFeatures int
}

func NewQuadraticDiscriminant() *QuadraticDiscriminant {
	return &QuadraticDiscriminant{
		BaseModel: BaseModel{
			Name:   "QuadraticDiscriminant",
			Params: map[string]any{},
		},
	}
}

func (qd *QuadraticDiscriminant) Fit(X *mat.Dense, y []int) error {
	if err := checkFitInput(X, y); err != nil {
		return err
	}

	n, p := X.Dims()
	classes := ExtractClasses(y)
	k := len(classes)

	classIdx := make(map[int]int, k)
	counts := make([]int, k)
	for j, class := range classes {
		classIdx[class] = j
	}
	for _, label := range y {
		counts[classIdx[label]]++
	}

	priors := make([]float64, k)
	for j, count := range counts {
		priors[j] = float64(count) / float64(n)
	}

	means := mat.NewDense(k, p, nil)
	for i := 0; i < n; i++ {
		j := classIdx[y[i]]
		for f := 0; f < p; f++ {
			means.Set(j, f, means.At(j, f)+X.At(i, f))
		}
	}
	for j := 0; j < k; j++ {
		for f := 0; f < p; f++ {
			means.Set(j, f, means.At(j, f)/float64(counts[j]))
		}
	}

	covInv := make([]*mat.SymDense, k)
	logDets := make([]float64, k)
	constants := make([]float64, k)

	for j, class := range classes {
		// An unbiased p×p covariance from count_j rows needs at least p+1
		// of them; fewer is guaranteed singular, so fail before factorizing.
		if counts[j] < p+1 {
			return &SingularMatrixError{
				Matrix: fmt.Sprintf("class %d covariance", class),
				Rows:   p,
				Cols:   p,
				Reason: fmt.Sprintf("class has %d samples, need at least %d for %d features", counts[j], p+1, p),
			}
		}

		// Per-class covariance over that class's rows only, ddof = 1.
		acc := make([]float64, p*p)
		diff := make([]float64, p)
		for i := 0; i < n; i++ {
			if classIdx[y[i]] != j {
				continue
			}
			for f := 0; f < p; f++ {
				diff[f] = X.At(i, f) - means.At(j, f)
			}
			for a := 0; a < p; a++ {
				for b := a; b < p; b++ {
					acc[a*p+b] += diff[a] * diff[b]
				}
			}
		}
		for a := 0; a < p; a++ {
			for b := 0; b < a; b++ {
				acc[a*p+b] = acc[b*p+a]
			}
		}
		cov := mat.NewSymDense(p, acc)
		cov.ScaleSym(1/float64(counts[j]-1), cov)

		var chol mat.Cholesky
		if ok := chol.Factorize(cov); !ok {
			return &SingularMatrixError{
				Matrix: fmt.Sprintf("class %d covariance", class),
				Rows:   p,
				Cols:   p,
				Reason: "matrix is not positive definite (degenerate class distribution)",
			}
		}

		inv := mat.NewSymDense(p, nil)
		if err := chol.InverseTo(inv); err != nil {
			return &SingularMatrixError{
				Matrix: fmt.Sprintf("class %d covariance", class),
				Rows:   p,
				Cols:   p,
				Reason: "inverse computation failed: " + err.Error(),
			}
		}

		covInv[j] = inv
		logDets[j] = chol.LogDet()
		constants[j] = math.Log(priors[j]) - 0.5*logDets[j]
	}

	qd.Classes = classes
	qd.Priors = priors
	qd.Means = means
	qd.CovInv = covInv
	qd.LogDets = logDets
	qd.Constants = constants
	qd.NFeatures = p

	return nil
}

func (qd *QuadraticDiscriminant) scores(X *mat.Dense) (*mat.Dense, error) {
	if qd.CovInv == nil {
		return nil, &InvalidInputError{Reason: "model is not fitted"}
	}
	if err := checkPredictInput(X, qd.NFeatures); err != nil {
		return nil, err
	}

	n, p := X.Dims()
	k := len(qd.Classes)

	scores := mat.NewDense(n, k, nil)
	diff := mat.NewVecDense(p, nil)
	tmp := mat.NewVecDense(p, nil)
	for j := 0; j < k; j++ {
		inv := qd.CovInv[j]
		for i := 0; i < n; i++ {
			for f := 0; f < p; f++ {
				diff.SetVec(f, X.At(i, f)-qd.Means.At(j, f))
			}
			tmp.MulVec(inv, diff)
			quad := mat.Dot(diff, tmp)
			scores.Set(i, j, qd.Constants[j]-0.5*quad)
		}
	}

	return scores, nil
}

func (qd *QuadraticDiscriminant) Predict(X *mat.Dense) ([]int, error) {
	scores, err := qd.scores(X)
	if err != nil {
		return nil, err
	}
	return argmaxPredict(scores, qd.Classes), nil
}

// PredictProba returns posterior estimates via a softmax over the quadratic
// discriminant scores.
func (qd *QuadraticDiscriminant) PredictProba(X *mat.Dense) (*mat.Dense, error) {
	scores, err := qd.scores(X)
	if err != nil {
		return nil, err
	}
	return softmaxRows(scores), nil
}

func (qd *QuadraticDiscriminant) GetClasses() []int {
	return qd.Classes
}

func (qd *QuadraticDiscriminant) Reset() {
	qd.Classes = nil
	qd.Priors = nil
	qd.Means = nil
	qd.CovInv = nil
	qd.LogDets = nil
	qd.Constants = nil
	qd.NFeatures = 0
}
