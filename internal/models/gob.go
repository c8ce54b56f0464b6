package models

import (
	"bytes"
	"encoding/gob"

	"gonum.org/v1/gonum/mat"
)

// gonum matrices carry no exported fields, so gob round-trips go through
// flat row-major snapshots.

type denseData struct {
	Rows int
	Cols int
	Data []float64
}

type symData struct {
	N    int
	Data []float64
}

func packDense(m *mat.Dense) denseData {
	if m == nil {
		return denseData{}
	}
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return denseData{Rows: r, Cols: c, Data: data}
}

func unpackDense(d denseData) *mat.Dense {
	if d.Rows == 0 {
		return nil
	}
	return mat.NewDense(d.Rows, d.Cols, d.Data)
}

func packSym(m *mat.SymDense) symData {
	if m == nil {
		return symData{}
	}
	n, _ := m.Dims()
	data := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return symData{N: n, Data: data}
}

func unpackSym(d symData) *mat.SymDense {
	if d.N == 0 {
		return nil
	}
	return mat.NewSymDense(d.N, d.Data)
}

type leastSquaresState struct {
	Classes   []int
	Beta      denseData
	NFeatures int
}

func (ls *LeastSquares) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(leastSquaresState{
		Classes:   ls.Classes,
		Beta:      packDense(ls.Beta),
		NFeatures: ls.NFeatures,
	})
	return buf.Bytes(), err
}

func (ls *LeastSquares) GobDecode(b []byte) error {
	var state leastSquaresState
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&state); err != nil {
		return err
	}
	*ls = *NewLeastSquares()
	ls.Classes = state.Classes
	ls.Beta = unpackDense(state.Beta)
	ls.NFeatures = state.NFeatures
	return nil
}

type linearDiscriminantState struct {
	Classes   []int
	Priors    []float64
	Means     denseData
	Sigma     symData
	SigmaInv  symData
	Constants []float64
	Discrim   denseData
	NFeatures int
}

func (ld *LinearDiscriminant) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(linearDiscriminantState{
		Classes:   ld.Classes,
		Priors:    ld.Priors,
		Means:     packDense(ld.Means),
		Sigma:     packSym(ld.Sigma),
		SigmaInv:  packSym(ld.SigmaInv),
		Constants: ld.Constants,
		Discrim:   packDense(ld.Discrim),
		NFeatures: ld.NFeatures,
	})
	return buf.Bytes(), err
}

func (ld *LinearDiscriminant) GobDecode(b []byte) error {
	var state linearDiscriminantState
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&state); err != nil {
		return err
	}
	*ld = *NewLinearDiscriminant()
	ld.Classes = state.Classes
	ld.Priors = state.Priors
	ld.Means = unpackDense(state.Means)
	ld.Sigma = unpackSym(state.Sigma)
	ld.SigmaInv = unpackSym(state.SigmaInv)
	ld.Constants = state.Constants
	ld.Discrim = unpackDense(state.Discrim)
	ld.NFeatures = state.NFeatures
	return nil
}

type quadraticDiscriminantState struct {
	Classes   []int
	Priors    []float64
	Means     denseData
	CovInv    []symData
	LogDets   []float64
	Constants []float64
	NFeatures int
}

func (qd *QuadraticDiscriminant) GobEncode() ([]byte, error) {
	state := quadraticDiscriminantState{
		Classes:   qd.Classes,
		Priors:    qd.Priors,
		Means:     packDense(qd.Means),
		LogDets:   qd.LogDets,
		Constants: qd.Constants,
		NFeatures: qd.NFeatures,
	}
	for _, inv := range qd.CovInv {
		state.CovInv = append(state.CovInv, packSym(inv))
	}
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(state)
	return buf.Bytes(), err
}

func (qd *QuadraticDiscriminant) GobDecode(b []byte) error {
	var state quadraticDiscriminantState
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&state); err != nil {
		return err
	}
	*qd = *NewQuadraticDiscriminant()
	qd.Classes = state.Classes
	qd.Priors = state.Priors
	qd.Means = unpackDense(state.Means)
	for _, inv := range state.CovInv {
		qd.CovInv = append(qd.CovInv, unpackSym(inv))
	}
	qd.LogDets = state.LogDets
	qd.Constants = state.Constants
	qd.NFeatures = state.NFeatures
	return nil
}
