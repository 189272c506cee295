package system

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrNoConvergence is returned when the iterative solver exhausts its
// iteration budget above the requested tolerance.
var ErrNoConvergence = errors.New("iterative solver did not converge")

type gmresOptions struct {
	tolerance     float64
	restart       int
	maxIterations int
}

// gmres solves op x = b by restarted GMRES with modified Gram-Schmidt
// orthogonalization and Givens rotations, starting from x0. It returns the
// solution and the number of iterations spent.
func gmres(op Operator, b, x0 []complex128, opts gmresOptions) ([]complex128, int, error) {
	n := op.Size()
	if len(b) != n || len(x0) != n {
		return nil, 0, fmt.Errorf("gmres: vector length %d and %d, system size %d", len(b), len(x0), n)
	}

	x := make([]complex128, n)
	copy(x, x0)
	bNorm := norm2(b)
	if bNorm == 0 {
		return x, 0, nil
	}

	m := opts.restart
	v := make([][]complex128, m+1)
	for i := range v {
		v[i] = make([]complex128, n)
	}
	h := make([][]complex128, m+1)
	for i := range h {
		h[i] = make([]complex128, m)
	}
	cs := make([]complex128, m)
	sn := make([]complex128, m)
	g := make([]complex128, m+1)
	w := make([]complex128, n)
	r := make([]complex128, n)

	iter := 0
	for iter < opts.maxIterations {
		op.Apply(r, x)
		for i := range r {
			r[i] = b[i] - r[i]
		}
		beta := norm2(r)
		if beta/bNorm <= opts.tolerance {
			return x, iter, nil
		}

		for i := range g {
			g[i] = 0
		}
		g[0] = complex(beta, 0)
		for i := range r {
			v[0][i] = r[i] / complex(beta, 0)
		}

		j := 0
		for ; j < m && iter < opts.maxIterations; j++ {
			iter++
			op.Apply(w, v[j])
			for i := 0; i <= j; i++ {
				h[i][j] = conjDot(v[i], w)
				for k := range w {
					w[k] -= h[i][j] * v[i][k]
				}
			}
			wNorm := norm2(w)
			h[j+1][j] = complex(wNorm, 0)
			if wNorm > 0 {
				for k := range w {
					v[j+1][k] = w[k] / complex(wNorm, 0)
				}
			}

			for i := 0; i < j; i++ {
				t := cs[i]*h[i][j] + sn[i]*h[i+1][j]
				h[i+1][j] = -cmplx.Conj(sn[i])*h[i][j] + cs[i]*h[i+1][j]
				h[i][j] = t
			}
			cs[j], sn[j] = givens(h[j][j], h[j+1][j])
			h[j][j] = cs[j]*h[j][j] + sn[j]*h[j+1][j]
			h[j+1][j] = 0
			g[j+1] = -cmplx.Conj(sn[j]) * g[j]
			g[j] = cs[j] * g[j]

			if cmplx.Abs(g[j+1])/bNorm <= opts.tolerance || wNorm == 0 {
				j++
				break
			}
		}

		// Back substitution of the triangularized least squares problem.
		y := make([]complex128, j)
		for i := j - 1; i >= 0; i-- {
			sum := g[i]
			for k := i + 1; k < j; k++ {
				sum -= h[i][k] * y[k]
			}
			y[i] = sum / h[i][i]
		}
		for i := 0; i < j; i++ {
			for k := range x {
				x[k] += y[i] * v[i][k]
			}
		}
	}

	op.Apply(r, x)
	for i := range r {
		r[i] = b[i] - r[i]
	}
	if norm2(r)/bNorm <= opts.tolerance {
		return x, iter, nil
	}
	return x, iter, fmt.Errorf("%w: relative residual %g after %d iterations",
		ErrNoConvergence, norm2(r)/bNorm, iter)
}

// givens returns the rotation zeroing b against a, with real cosine.
func givens(a, b complex128) (c, s complex128) {
	if b == 0 {
		return 1, 0
	}
	if a == 0 {
		return 0, 1
	}
	rho := math.Hypot(cmplx.Abs(a), cmplx.Abs(b))
	c = complex(cmplx.Abs(a)/rho, 0)
	s = a / complex(cmplx.Abs(a), 0) * cmplx.Conj(b) / complex(rho, 0)
	return c, s
}

func conjDot(a, b []complex128) complex128 {
	var sum complex128
	for i := range a {
		sum += cmplx.Conj(a[i]) * b[i]
	}
	return sum
}

func norm2(v []complex128) float64 {
	var sum float64
	for _, x := range v {
		sum += real(x)*real(x) + imag(x)*imag(x)
	}
	return math.Sqrt(sum)
}
