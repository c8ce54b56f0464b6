package models

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LinearDiscriminant fits class priors, per-class means and a single pooled
// covariance. The covariance inverse and the p×k discrimination matrix are
// computed once at fit time; Predict is a single matrix product plus a
// per-class constant.
type LinearDiscriminant struct {
	BaseModel
	Priors    []float64
	Means     *mat.Dense // k×p, row per class
	Sigma     *mat.SymDense
	SigmaInv  *mat.SymDense
	Constants []float64
	Discrim   *mat.Dense // p×k, Σ⁻¹ Meansᵀ
	NFeatures int
}

func NewLinearDiscriminant() *LinearDiscriminant {
	return &LinearDiscriminant{
		BaseModel: BaseModel{
			Name:   "LinearDiscriminant",
			Params: map[string]any{},
		},
	}
}

func (ld *LinearDiscriminant) Fit(X *mat.Dense, y []int) error {
	if err := checkFitInput(X, y); err != nil {
		return err
	}

	n, p := X.Dims()
	classes := ExtractClasses(y)
	k := len(classes)

	if n-k <= 0 {
		return &SingularMatrixError{
			Matrix: "pooled covariance",
			Rows:   p,
			Cols:   p,
			Reason: "pooled estimate needs more samples than classes",
		}
	}

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

	// Per-class means: accumulate row sums, then divide by class counts.
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

	// Pooled within-class covariance: sum of residual outer products over
	// all rows, divided by n−k (one degree of freedom per class mean).
	acc := make([]float64, p*p)
	diff := make([]float64, p)
	for i := 0; i < n; i++ {
		j := classIdx[y[i]]
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
	sigma := mat.NewSymDense(p, acc)
	sigma.ScaleSym(1/float64(n-k), sigma)

	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return &SingularMatrixError{
			Matrix: "pooled covariance",
			Rows:   p,
			Cols:   p,
			Reason: "matrix is not positive definite (collinear features or insufficient within-class spread)",
		}
	}

	sigmaInv := mat.NewSymDense(p, nil)
	if err := chol.InverseTo(sigmaInv); err != nil {
		return &SingularMatrixError{
			Matrix: "pooled covariance",
			Rows:   p,
			Cols:   p,
			Reason: "inverse computation failed: " + err.Error(),
		}
	}

	// Constants: log π_c − ½ μ_cᵀ Σ⁻¹ μ_c per class.
	constants := make([]float64, k)
	tmp := mat.NewVecDense(p, nil)
	for j := 0; j < k; j++ {
		mu := means.RowView(j)
		tmp.MulVec(sigmaInv, mu)
		constants[j] = math.Log(priors[j]) - 0.5*mat.Dot(mu, tmp)
	}

	discrim := &mat.Dense{}
	discrim.Mul(sigmaInv, means.T())

	ld.Classes = classes
	ld.Priors = priors
	ld.Means = means
	ld.Sigma = sigma
	ld.SigmaInv = sigmaInv
	ld.Constants = constants
	ld.Discrim = discrim
	ld.NFeatures = p

	return nil
}

func (ld *LinearDiscriminant) scores(X *mat.Dense) (*mat.Dense, error) {
	if ld.Discrim == nil {
		return nil, &InvalidInputError{Reason: "model is not fitted"}
	}
	if err := checkPredictInput(X, ld.NFeatures); err != nil {
		return nil, err
	}

	var scores mat.Dense
	scores.Mul(X, ld.Discrim)

	n, k := scores.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			scores.Set(i, j, scores.At(i, j)+ld.Constants[j])
		}
	}

	return &scores, nil
}

func (ld *LinearDiscriminant) Predict(X *mat.Dense) ([]int, error) {
	scores, err := ld.scores(X)
	if err != nil {
		return nil, err
	}
	return argmaxPredict(scores, ld.Classes), nil
}

// PredictProba returns posterior estimates via a softmax over the linear
// discriminant scores.
func (ld *LinearDiscriminant) PredictProba(X *mat.Dense) (*mat.Dense, error) {
	scores, err := ld.scores(X)
	if err != nil {
		return nil, err
	}
	return softmaxRows(scores), nil
}

func (ld *LinearDiscriminant) GetClasses() []int {
	return ld.Classes
}

func (ld *LinearDiscriminant) Reset() {
	ld.Classes = nil
	ld.Priors = nil
	ld.Means = nil
	ld.Sigma = nil
	ld.SigmaInv = nil
	ld.Constants = nil
	ld.Discrim = nil
	ld.NFeatures = 0
}

// softmaxRows converts discriminant scores to probabilities row by row,
// shifting by the row maximum for stability.
func softmaxRows(scores *mat.Dense) *mat.Dense {
	n, k := scores.Dims()
	proba := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		row := scores.RawRowView(i)
		maxScore := row[0]
		for _, v := range row[1:] {
			if v > maxScore {
				maxScore = v
			}
		}
		sum := 0.0
		for j := 0; j < k; j++ {
			e := math.Exp(row[j] - maxScore)
			proba.Set(i, j, e)
			sum += e
		}
		for j := 0; j < k; j++ {
			proba.Set(i, j, proba.At(i, j)/sum)
		}
	}
	return proba
}
