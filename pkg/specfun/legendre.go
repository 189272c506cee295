// Package specfun evaluates the special functions the field expansion algebra
// is built from: normalized associated Legendre functions with their angular
// companions, spherical Bessel and Hankel functions of complex argument, and
// Wigner 3-j symbols.
package specfun

import (
	"math"
	"math/cmplx"
)

// LegendreNormalized computes the normalized associated Legendre functions
//
//	P[l][m] = sqrt((2l+1)/2 * (l-m)!/(l+m)!) * P_l^m(ct)
//
// without the Condon-Shortley phase, together with the angular functions
// pi[l][m] = P[l][m]/st and tau[l][m] = dP[l][m]/dtheta, for 0 <= m <= l <= lMax.
// The argument is given as ct = cos(theta), st = sin(theta) and may be complex
// (evanescent propagation directions). pi is only populated for m >= 1; its
// every use carries a factor m, so the m = 0 column is irrelevant and left zero.
// At the polar axis (st = 0) all returned values stay finite.
func LegendreNormalized(ct, st complex128, lMax int) (p, pi, tau [][]complex128) {
	p = newTriangle(lMax)
	pi = newTriangle(lMax)
	tau = newTriangle(lMax)

	p[0][0] = complex(math.Sqrt(0.5), 0)
	for m := 1; m <= lMax; m++ {
		f := math.Sqrt(float64(2*m+1) / float64(2*m))
		p[m][m] = complex(f, 0) * st * p[m-1][m-1]
	}
	for m := 0; m <= lMax; m++ {
		if m < lMax {
			p[m+1][m] = complex(math.Sqrt(float64(2*m+3)), 0) * ct * p[m][m]
		}
		for l := m + 2; l <= lMax; l++ {
			a, b := legendreRecurrence(l, m)
			p[l][m] = complex(a, 0)*ct*p[l-1][m] - complex(b, 0)*p[l-2][m]
		}
	}

	// pi follows the same recurrences with one power of st removed from the seed.
	if lMax >= 1 {
		pi[1][1] = complex(math.Sqrt(3)/2, 0)
		for m := 2; m <= lMax; m++ {
			f := math.Sqrt(float64(2*m+1) / float64(2*m))
			pi[m][m] = complex(f, 0) * st * pi[m-1][m-1]
		}
		for m := 1; m <= lMax; m++ {
			if m < lMax {
				pi[m+1][m] = complex(math.Sqrt(float64(2*m+3)), 0) * ct * pi[m][m]
			}
			for l := m + 2; l <= lMax; l++ {
				a, b := legendreRecurrence(l, m)
				pi[l][m] = complex(a, 0)*ct*pi[l-1][m] - complex(b, 0)*pi[l-2][m]
			}
		}
	}

	for m := 0; m <= lMax; m++ {
		for l := max(1, m); l <= lMax; l++ {
			if m == 0 {
				if cmplx.Abs(st) < 1e-14 {
					tau[l][0] = 0 // derivative of P_l(cos theta) vanishes on the axis
					continue
				}
				c := float64(l) * math.Sqrt(float64(2*l+1)/float64(2*l-1))
				tau[l][0] = (complex(float64(l), 0)*ct*p[l][0] - complex(c, 0)*p[l-1][0]) / st
				continue
			}
			c := math.Sqrt(float64(2*l+1) * float64(l-m) * float64(l+m) / float64(2*l-1))
			var prev complex128
			if l-1 >= m {
				prev = pi[l-1][m]
			}
			tau[l][m] = complex(float64(l), 0)*ct*pi[l][m] - complex(c, 0)*prev
		}
	}
	return p, pi, tau
}

func legendreRecurrence(l, m int) (a, b float64) {
	a = math.Sqrt(float64(2*l-1) * float64(2*l+1) / (float64(l-m) * float64(l+m)))
	b = math.Sqrt(float64(2*l+1) * float64(l-1-m) * float64(l-1+m) / (float64(2*l-3) * float64(l-m) * float64(l+m)))
	return a, b
}

func newTriangle(lMax int) [][]complex128 {
	t := make([][]complex128, lMax+1)
	for i := range t {
		t[i] = make([]complex128, lMax+1)
	}
	return t
}
