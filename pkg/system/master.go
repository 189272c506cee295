package system

import (
	"gonum.org/v1/gonum/mat"
)

// MasterMatrix is the system operator M = 1 - T W acting on scattered field
// coefficient vectors. When both T and W are held as explicit matrices, M is
// materialized as one and satisfies Matrixer for the direct solver;
// otherwise products are evaluated as v - T(W(v)).
type MasterMatrix struct {
	tmat Operator
	w    Operator
	m    *mat.CDense // nil in matrix-free mode
	buf  []complex128
}

// NewMasterMatrix composes the master operator from the transition and
// coupling operators. An explicit coupling matrix yields an explicit M,
// built column by column as T applied to the columns of W.
func NewMasterMatrix(tmat, w Operator) *MasterMatrix {
	mm := &MasterMatrix{tmat: tmat, w: w}
	if wm, ok := w.(Matrixer); ok {
		n := tmat.Size()
		col := make([]complex128, n)
		out := make([]complex128, n)
		m := mat.NewCDense(n, n, nil)
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				col[i] = wm.Matrix().At(i, j)
			}
			tmat.Apply(out, col)
			for i := 0; i < n; i++ {
				v := -out[i]
				if i == j {
					v += 1
				}
				m.Set(i, j, v)
			}
		}
		mm.m = m
	} else {
		mm.buf = make([]complex128, tmat.Size())
	}
	return mm
}

func (mm *MasterMatrix) Size() int { return mm.tmat.Size() }

func (mm *MasterMatrix) Apply(dst, src []complex128) {
	if mm.m != nil {
		n := mm.Size()
		for i := 0; i < n; i++ {
			var sum complex128
			for j := 0; j < n; j++ {
				sum += mm.m.At(i, j) * src[j]
			}
			dst[i] = sum
		}
		return
	}
	mm.w.Apply(mm.buf, src)
	mm.tmat.Apply(dst, mm.buf)
	for i := range dst {
		dst[i] = src[i] - dst[i]
	}
}

// HasMatrix reports whether M is held as an explicit matrix.
func (mm *MasterMatrix) HasMatrix() bool { return mm.m != nil }

// Matrix returns the explicit matrix, or nil in matrix-free mode.
func (mm *MasterMatrix) Matrix() *mat.CDense { return mm.m }
