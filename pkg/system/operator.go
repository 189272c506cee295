// Package system assembles and solves the multiple-scattering linear system
// M b = T a with M = 1 - T W, where T is the block-diagonal transition matrix
// of the particle ensemble, W the particle coupling matrix and a the initial
// field coefficients.
package system

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrUnsupportedConfig is returned when a solver option combination has no
// implementation, such as an iterative lookup-accelerated solve on
// non-coplanar particles.
var ErrUnsupportedConfig = errors.New("unsupported solver configuration")

// Operator is a square linear map on coefficient vectors. Implementations
// may hold an explicit matrix or evaluate matrix-vector products on the fly.
type Operator interface {
	// Size returns the dimension of the operator.
	Size() int
	// Apply stores op * src into dst. dst and src must have length Size()
	// and must not alias.
	Apply(dst, src []complex128)
}

// Matrixer is implemented by operators holding an explicit dense matrix.
// The direct solver requires it.
type Matrixer interface {
	Matrix() *mat.CDense
}

// denseOperator wraps an explicit matrix.
type denseOperator struct {
	m *mat.CDense
}

func (d *denseOperator) Size() int {
	r, _ := d.m.Dims()
	return r
}

func (d *denseOperator) Apply(dst, src []complex128) {
	r, c := d.m.Dims()
	for i := 0; i < r; i++ {
		var sum complex128
		for j := 0; j < c; j++ {
			sum += d.m.At(i, j) * src[j]
		}
		dst[i] = sum
	}
}

func (d *denseOperator) Matrix() *mat.CDense { return d.m }

// NewDenseOperator returns an operator backed by the given square matrix.
func NewDenseOperator(m *mat.CDense) Operator {
	return &denseOperator{m: m}
}

// funcOperator evaluates products through a callback.
type funcOperator struct {
	size  int
	apply func(dst, src []complex128)
}

func (f *funcOperator) Size() int                   { return f.size }
func (f *funcOperator) Apply(dst, src []complex128) { f.apply(dst, src) }

// NewFuncOperator returns an operator of the given size evaluating products
// through apply.
func NewFuncOperator(size int, apply func(dst, src []complex128)) Operator {
	return &funcOperator{size: size, apply: apply}
}
