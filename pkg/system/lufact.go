package system

import (
	"fmt"

	"github.com/edp1096/sparse"
	"gonum.org/v1/gonum/mat"
)

// luFactorization holds a factorized copy of the master matrix for repeated
// right-hand sides.
type luFactorization struct {
	size    int
	matrix  *sparse.Matrix
	rhs     []float64
	rhsImag []float64
	config  *sparse.Configuration
}

// newLUFactorization loads the dense master matrix into the sparse solver
// and factorizes it. Indices are 1-based inside the solver.
func newLUFactorization(m *mat.CDense) (*luFactorization, error) {
	size, _ := m.Dims()

	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	sm, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %v", err)
	}

	for i := 1; i <= size; i++ {
		for j := 1; j <= size; j++ {
			v := m.At(i-1, j-1)
			if v == 0 {
				continue
			}
			element := sm.GetElement(int64(i), int64(j))
			element.Real += real(v)
			element.Imag += imag(v)
		}
	}

	if err := sm.Factor(); err != nil {
		sm.Destroy()
		return nil, fmt.Errorf("matrix factorization failed: %v", err)
	}

	vectorSize := 2 * (size + 1)
	return &luFactorization{
		size:    size,
		matrix:  sm,
		rhs:     make([]float64, vectorSize), // 1-based indexing
		rhsImag: make([]float64, 1),
		config:  config,
	}, nil
}

// Solve returns the solution of the factorized system for the given
// right-hand side.
func (lu *luFactorization) Solve(b []complex128) ([]complex128, error) {
	if len(b) != lu.size {
		return nil, fmt.Errorf("right-hand side length %d, system size %d", len(b), lu.size)
	}
	for i, v := range b {
		lu.rhs[2*(i+1)] = real(v)
		lu.rhs[2*(i+1)+1] = imag(v)
	}

	solution, _, err := lu.matrix.SolveComplex(lu.rhs, lu.rhsImag)
	if err != nil {
		return nil, fmt.Errorf("matrix solve failed: %v", err)
	}

	// Interleaved layout: real at 2*(i+1), imaginary at 2*(i+1)+1.
	x := make([]complex128, lu.size)
	for i := range x {
		x[i] = complex(solution[2*(i+1)], solution[2*(i+1)+1])
	}
	return x, nil
}

func (lu *luFactorization) Destroy() {
	if lu.matrix != nil {
		lu.matrix.Destroy()
		lu.matrix = nil
	}
}
