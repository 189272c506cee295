package system

import (
	"fmt"
)

// tmatrixOperator is the block-diagonal transition matrix of the ensemble:
// each particle's block maps its regular excitation coefficients to its
// outgoing scattered coefficients.
type tmatrixOperator struct {
	sys *SystemMatrix
}

// NewTMatrixOperator returns the block-diagonal transition operator. Every
// particle must carry a square transition matrix matching its block size.
func NewTMatrixOperator(sys *SystemMatrix) (Operator, error) {
	for i, p := range sys.Particles() {
		if p.TMatrix == nil {
			return nil, fmt.Errorf("particle %d has no transition matrix", i)
		}
		r, c := p.TMatrix.Dims()
		if r != p.BlockSize() || c != p.BlockSize() {
			return nil, fmt.Errorf("particle %d transition matrix is %dx%d, block size is %d",
				i, r, c, p.BlockSize())
		}
	}
	return &tmatrixOperator{sys: sys}, nil
}

func (t *tmatrixOperator) Size() int { return t.sys.Size() }

func (t *tmatrixOperator) Apply(dst, src []complex128) {
	for i, p := range t.sys.Particles() {
		lo, hi := t.sys.BlockRange(i)
		for r := lo; r < hi; r++ {
			var sum complex128
			for c := lo; c < hi; c++ {
				sum += p.TMatrix.At(r-lo, c-lo) * src[c]
			}
			dst[r] = sum
		}
	}
}

// RightHandSide returns the vector T a of per-particle transition matrices
// applied to the initial field coefficients. Initial fields must have been
// computed beforehand.
func RightHandSide(sys *SystemMatrix) ([]complex128, error) {
	rhs := make([]complex128, sys.Size())
	for i, p := range sys.Particles() {
		if p.InitialField == nil {
			return nil, fmt.Errorf("particle %d has no initial field", i)
		}
		if len(p.InitialField.Coefficients) != p.BlockSize() {
			return nil, fmt.Errorf("particle %d initial field has %d coefficients, block size is %d",
				i, len(p.InitialField.Coefficients), p.BlockSize())
		}
		lo, hi := sys.BlockRange(i)
		for r := lo; r < hi; r++ {
			var sum complex128
			for c := 0; c < p.BlockSize(); c++ {
				sum += p.TMatrix.At(r-lo, c) * p.InitialField.Coefficients[c]
			}
			rhs[r] = sum
		}
	}
	return rhs, nil
}
