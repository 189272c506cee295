package transform

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/specfun"
)

// AB5 returns the coupling coefficient pair (a5, b5) entering the spherical
// wave translation operator at summation degree p, evaluated numerically from
// the closed-form expressions with Wigner 3-j symbols.
func AB5(l1, m1, l2, m2, p int) (a, b complex128) {
	jfac := ipow(iabs(m1-m2) - iabs(m1) - iabs(m2) + l2 - l1 + p)
	if (m1-m2)%2 != 0 {
		jfac = -jfac
	}
	fac1 := math.Sqrt(float64((2*l1 + 1) * (2*l2 + 1)) / float64(2*l1*(l1+1)*l2*(l2+1)))
	fac2a := float64(l1*(l1+1)+l2*(l2+1)-p*(p+1)) * math.Sqrt(float64(2*p+1))
	fac2b := math.Sqrt(float64((l1 + l2 + 1 + p) * (l1 + l2 + 1 - p) * (p + l1 - l2) * (p - l1 + l2) * (2*p + 1)))
	wig1 := specfun.Wigner3j(l1, l2, p, m1, -m2, -(m1 - m2))
	wig2a := specfun.Wigner3j(l1, l2, p, 0, 0, 0)

	a = jfac * complex(fac1*fac2a*wig1*wig2a, 0)
	if p >= 1 {
		wig2b := specfun.Wigner3j(l1, l2, p-1, 0, 0, 0)
		b = jfac * complex(fac1*fac2b*wig1*wig2b, 0)
	}
	return a, b
}

// TranslationTables caches the quantities shared by all translation
// coefficients of one shift vector: the radial function table of degrees
// 0..l1+l2, the normalized Legendre table of the shift direction, and the
// azimuthal angle of the shift.
type TranslationTables struct {
	SphZ     []complex128
	Legendre [][]complex128
	PhiD     float64
}

// NewTranslationTables precomputes tables for the shift vector d. Outgoing
// re-expansion (valid beyond |d|) uses spherical Bessel radial functions,
// regular re-expansion (valid inside |d|) spherical Hankel functions.
func NewTranslationTables(k complex128, d r3.Vec, lSum int, kind multipole.Kind) TranslationTables {
	dd := r3.Norm(d)
	kd := k * complex(dd, 0)
	var z []complex128
	if kind == multipole.Regular {
		z = specfun.SphericalHankel(lSum, kd)
	} else {
		z = specfun.SphericalBessel(lSum, kd)
	}
	ct := complex(d.Z/dd, 0)
	st := complex(math.Hypot(d.X, d.Y)/dd, 0)
	leg, _, _ := specfun.LegendreNormalized(ct, st, lSum)
	return TranslationTables{
		SphZ:     z,
		Legendre: leg,
		PhiD:     math.Atan2(d.Y, d.X),
	}
}

// TranslationCoefficient computes the coefficient A expressing the outgoing
// partial wave (tau1, l1, m1), re-expanded about an origin shifted by d, in
// terms of regular partial waves (tau2, l2, m2) at the new origin. The
// re-expansion converges for evaluation points closer to the new origin
// than |d|.
func TranslationCoefficient(tau1 multipole.Polarization, l1, m1 int, tau2 multipole.Polarization, l2, m2 int, k complex128, d r3.Vec) complex128 {
	t := NewTranslationTables(k, d, l1+l2, multipole.Regular)
	return TranslationCoefficientFromTables(tau1, l1, m1, tau2, l2, m2, t)
}

// TranslationCoefficientOutToOut is the variant expanding in outgoing partial
// waves at the new origin, converging for evaluation points farther from the
// new origin than |d|.
func TranslationCoefficientOutToOut(tau1 multipole.Polarization, l1, m1 int, tau2 multipole.Polarization, l2, m2 int, k complex128, d r3.Vec) complex128 {
	t := NewTranslationTables(k, d, l1+l2, multipole.Outgoing)
	return TranslationCoefficientFromTables(tau1, l1, m1, tau2, l2, m2, t)
}

// TranslationCoefficientFromTables evaluates a translation coefficient from
// precomputed tables, allowing reuse across the many index combinations
// sharing one shift vector.
func TranslationCoefficientFromTables(tau1 multipole.Polarization, l1, m1 int, tau2 multipole.Polarization, l2, m2 int, t TranslationTables) complex128 {
	return cmplx.Exp(complex(0, float64(m1-m2)*t.PhiD)) * RadialPart(tau1, l1, m1, tau2, l2, m2, t)
}

// RadialPart evaluates the translation coefficient with the azimuthal phase
// factor stripped, which for coplanar shift vectors depends only on the
// radial distance. It backs the radial coupling lookup tables.
func RadialPart(tau1 multipole.Polarization, l1, m1 int, tau2 multipole.Polarization, l2, m2 int, t TranslationTables) complex128 {
	var sum complex128
	for p := iabs(l1 - l2); p <= l1+l2; p++ {
		a5, b5 := AB5(l1, m1, l2, m2, p)
		c := a5
		if tau1 != tau2 {
			c = b5
		}
		if c == 0 {
			continue
		}
		sum += c * t.SphZ[p] * t.Legendre[p][iabs(m1-m2)]
	}
	return sum
}
