package specfun

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-12

func TestWigner3jKnownValues(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt(5), Wigner3j(1, 1, 2, 1, 1, -2), eps)
	assert.InDelta(t, -1/math.Sqrt(3), Wigner3j(1, 1, 0, 0, 0, 0), eps)
	assert.InDelta(t, math.Sqrt(2.0/35.0), Wigner3j(2, 2, 4, 0, 0, 0), eps)
	assert.InDelta(t, -0.16903085094570325, Wigner3j(1, 2, 3, 1, -1, 0), eps)
}

func TestWigner3jSelectionRules(t *testing.T) {
	assert.Zero(t, Wigner3j(1, 1, 2, 1, 1, -1)) // m1+m2+m3 != 0
	assert.Zero(t, Wigner3j(1, 1, 3, 0, 0, 0))  // triangle violation
	assert.InDelta(t, 0, Wigner3j(2, 2, 1, 0, 0, 0), 1e-15) // odd j sum with zero m
	assert.Zero(t, Wigner3j(1, 1, 2, 2, 0, -2)) // |m1| > j1
}

func TestLegendreNormalizedExplicit(t *testing.T) {
	theta := 0.7
	ct := complex(math.Cos(theta), 0)
	st := complex(math.Sin(theta), 0)
	p, pi, tau := LegendreNormalized(ct, st, 2)

	c, s := math.Cos(theta), math.Sin(theta)
	require.InDelta(t, math.Sqrt(0.5), real(p[0][0]), eps)
	require.InDelta(t, math.Sqrt(1.5)*c, real(p[1][0]), eps)
	require.InDelta(t, math.Sqrt(0.75)*s, real(p[1][1]), eps)
	require.InDelta(t, math.Sqrt(2.5)*(3*c*c-1)/2, real(p[2][0]), eps)
	require.InDelta(t, math.Sqrt(5.0/12.0)*3*c*s, real(p[2][1]), eps)
	require.InDelta(t, math.Sqrt(5.0/48.0)*3*s*s, real(p[2][2]), eps)

	// pi[l][m] = P[l][m] / sin(theta).
	for l := 1; l <= 2; l++ {
		for m := 1; m <= l; m++ {
			assert.InDelta(t, real(p[l][m])/s, real(pi[l][m]), eps, "pi l=%d m=%d", l, m)
		}
	}

	// tau[l][m] = d P[l][m] / d theta.
	assert.InDelta(t, -math.Sqrt(1.5)*s, real(tau[1][0]), eps)
	assert.InDelta(t, math.Sqrt(0.75)*c, real(tau[1][1]), eps)
	assert.InDelta(t, -math.Sqrt(2.5)*3*c*s, real(tau[2][0]), eps)
	assert.InDelta(t, math.Sqrt(5.0/12.0)*3*(c*c-s*s), real(tau[2][1]), eps)
	assert.InDelta(t, math.Sqrt(5.0/48.0)*6*s*c, real(tau[2][2]), eps)
}

func TestLegendreNormalizedPolarAxis(t *testing.T) {
	p, pi, tau := LegendreNormalized(1, 0, 5)
	for l := 0; l <= 5; l++ {
		for m := 0; m <= l; m++ {
			assert.False(t, cmplx.IsNaN(p[l][m]), "p l=%d m=%d", l, m)
			assert.False(t, cmplx.IsNaN(pi[l][m]), "pi l=%d m=%d", l, m)
			assert.False(t, cmplx.IsNaN(tau[l][m]), "tau l=%d m=%d", l, m)
		}
		// P_l(1) = sqrt((2l+1)/2).
		assert.InDelta(t, math.Sqrt(float64(2*l+1)/2), real(p[l][0]), eps)
	}
}

func TestLegendreNormalizedComplexArgument(t *testing.T) {
	// kz/k above the light line: ct imaginary part nonzero, ct^2 + st^2 = 1.
	ct := complex(0.4, 0.3)
	st := cmplx.Sqrt(1 - ct*ct)
	p, _, _ := LegendreNormalized(ct, st, 2)
	want := cmplx.Sqrt(2.5) * (3*ct*ct - 1) / 2
	assert.InDelta(t, real(want), real(p[2][0]), eps)
	assert.InDelta(t, imag(want), imag(p[2][0]), eps)
}

func TestSphericalBesselClosedForms(t *testing.T) {
	for _, x := range []complex128{2.5, complex(1.3, 0.4), 9} {
		j := SphericalBessel(3, x)
		want0 := cmplx.Sin(x) / x
		want1 := cmplx.Sin(x)/(x*x) - cmplx.Cos(x)/x
		assert.InDelta(t, real(want0), real(j[0]), eps)
		assert.InDelta(t, imag(want0), imag(j[0]), eps)
		assert.InDelta(t, real(want1), real(j[1]), eps)
		assert.InDelta(t, imag(want1), imag(j[1]), eps)

		y := SphericalNeumann(3, x)
		want0 = -cmplx.Cos(x) / x
		assert.InDelta(t, real(want0), real(y[0]), eps)
		assert.InDelta(t, imag(want0), imag(y[0]), eps)
	}
}

func TestSphericalBesselCrossProduct(t *testing.T) {
	// j_l(x) y_{l-1}(x) - j_{l-1}(x) y_l(x) = 1 / x^2.
	for _, x := range []complex128{1.7, 6.2, complex(2, 1)} {
		j := SphericalBessel(6, x)
		y := SphericalNeumann(6, x)
		want := 1 / (x * x)
		for l := 1; l <= 6; l++ {
			got := j[l]*y[l-1] - j[l-1]*y[l]
			assert.InDelta(t, real(want), real(got), 1e-10, "l=%d x=%v", l, x)
			assert.InDelta(t, imag(want), imag(got), 1e-10, "l=%d x=%v", l, x)
		}
	}
}

func TestSphericalHankel(t *testing.T) {
	x := complex(3.1, 0)
	h := SphericalHankel(2, x)
	want := -1i * cmplx.Exp(1i*x) / x
	assert.InDelta(t, real(want), real(h[0]), eps)
	assert.InDelta(t, imag(want), imag(h[0]), eps)
}

func TestSphericalBesselSmallArgument(t *testing.T) {
	j := SphericalBessel(4, 0)
	assert.Equal(t, complex128(1), j[0])
	for l := 1; l <= 4; l++ {
		assert.Zero(t, j[l])
	}
}

func TestDxXZ(t *testing.T) {
	// d/dx [x j_1(x)] against the closed form
	// j_1 = sin/x^2 - cos/x, so x j_1 = sin/x - cos and
	// d/dx [x j_1] = cos/x - sin/x^2 + sin = x j_0 - j_1.
	x := complex(2.2, 0)
	j := SphericalBessel(3, x)
	d := DxXZ(j, x)
	want := cmplx.Cos(x)/x - cmplx.Sin(x)/(x*x) + cmplx.Sin(x)
	assert.InDelta(t, real(want), real(d[1]), eps)
	assert.InDelta(t, imag(want), imag(d[1]), eps)
	assert.Zero(t, d[0])
}
