package specfun

import (
	"math/cmplx"
)

// SphericalBessel returns j_0(x) .. j_lMax(x) for complex argument x, using
// downward recurrence normalized against the closed form of j_0.
func SphericalBessel(lMax int, x complex128) []complex128 {
	out := make([]complex128, lMax+1)
	if cmplx.Abs(x) < 1e-12 {
		out[0] = 1
		return out
	}
	start := lMax + 25 + int(cmplx.Abs(x))
	jj := make([]complex128, start+2)
	jj[start+1] = 0
	jj[start] = complex(1e-30, 0)
	for n := start; n >= 1; n-- {
		jj[n-1] = complex(float64(2*n+1), 0)/x*jj[n] - jj[n+1]
	}
	scale := cmplx.Sin(x) / x / jj[0]
	for l := 0; l <= lMax; l++ {
		out[l] = jj[l] * scale
	}
	return out
}

// SphericalNeumann returns y_0(x) .. y_lMax(x) by upward recurrence, which is
// stable for the irregular solution.
func SphericalNeumann(lMax int, x complex128) []complex128 {
	y := make([]complex128, lMax+1)
	y[0] = -cmplx.Cos(x) / x
	if lMax >= 1 {
		y[1] = -cmplx.Cos(x)/(x*x) - cmplx.Sin(x)/x
	}
	for n := 1; n < lMax; n++ {
		y[n+1] = complex(float64(2*n+1), 0)/x*y[n] - y[n-1]
	}
	return y
}

// SphericalHankel returns the spherical Hankel functions of the first kind,
// h_l = j_l + i y_l, for l = 0 .. lMax.
func SphericalHankel(lMax int, x complex128) []complex128 {
	j := SphericalBessel(lMax, x)
	y := SphericalNeumann(lMax, x)
	h := make([]complex128, lMax+1)
	for l := 0; l <= lMax; l++ {
		h[l] = j[l] + complex(0, 1)*y[l]
	}
	return h
}

// DxXZ returns d/dx [x z_l(x)] for l = 1 .. len(z)-1 given a table z of any
// spherical Bessel family, via x z_{l-1}(x) - l z_l(x). Entry 0 is left zero.
func DxXZ(z []complex128, x complex128) []complex128 {
	out := make([]complex128, len(z))
	for l := 1; l < len(z); l++ {
		out[l] = x*z[l-1] - complex(float64(l), 0)*z[l]
	}
	return out
}
