// Package transform implements the analytic operators connecting the two
// field representations: spherical-to-plane wave conversion and back, and the
// translation of spherical expansions to shifted origins.
package transform

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/field"
	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/specfun"
	"github.com/parkerwray/smuthi-1/pkg/util"
)

// TransformationCoefficient computes the coefficient B that expands a
// spherical partial wave (tau, l, m) in plane partial waves of polarization
// pol with out-of-plane wavenumber kz, following Doicu, Wriedt and Eremin.
// The dagger variant is used for the reverse expansion of plane waves in
// spherical waves.
func TransformationCoefficient(tau multipole.Polarization, l, m int, pol multipole.Polarization, kp, kz, k complex128, dagger bool) complex128 {
	ct := kz / k
	st := kp / k
	_, pilm, taulm := specfun.LegendreNormalized(ct, st, l)
	return transformationFromTables(tau, l, m, pol, pilm, taulm, dagger)
}

func transformationFromTables(tau multipole.Polarization, l, m int, pol multipole.Polarization, pilm, taulm [][]complex128, dagger bool) complex128 {
	am := m
	if am < 0 {
		am = -am
	}
	var angular complex128
	if tau == pol {
		angular = taulm[l][am]
	} else {
		angular = complex(float64(m), 0) * pilm[l][am]
	}

	norm := complex(-1/math.Sqrt(float64(2*l*(l+1))), 0)
	var prefac complex128
	if dagger {
		prefac = norm / ipow(-(l + 1))
		if pol == multipole.TE {
			prefac *= complex(0, -1)
		}
	} else {
		prefac = norm / ipow(l+1)
		if pol == multipole.TE {
			prefac *= complex(0, 1)
		}
	}
	return prefac * angular
}

// ipow returns i^n for any integer n.
func ipow(n int) complex128 {
	switch ((n % 4) + 4) % 4 {
	case 0:
		return 1
	case 1:
		return complex(0, 1)
	case 2:
		return -1
	default:
		return complex(0, -1)
	}
}

// SweToPwe converts an outgoing spherical wave expansion into an up-going and
// a down-going plane wave expansion over the given spectral grids, referenced
// at ref. The up-going result is valid above the source reference height up
// to valid.Upper, the down-going one below it down to valid.Lower.
func SweToPwe(swe *field.SphericalWaveExpansion, kParallel []complex128, azimuthalAngles []float64, ref r3.Vec, valid field.Interval) (up, down *field.PlaneWaveExpansion, err error) {
	if swe.Kind != multipole.Outgoing {
		return nil, nil, fmt.Errorf("%w: plane wave decomposition requires an outgoing expansion, got %s", field.ErrInvalidKind, swe.Kind)
	}

	up = field.NewPlaneWaveExpansion(swe.K, kParallel, azimuthalAngles, field.Up, ref,
		field.Interval{Lower: swe.ReferencePoint.Z, Upper: valid.Upper})
	down = field.NewPlaneWaveExpansion(swe.K, kParallel, azimuthalAngles, field.Down, ref,
		field.Interval{Lower: valid.Lower, Upper: swe.ReferencePoint.Z})

	kzUp := up.Kz()
	kzDown := down.Kz()
	shift := r3.Sub(ref, swe.ReferencePoint)

	for ik, kp := range kParallel {
		_, piUp, tauUp := specfun.LegendreNormalized(kzUp[ik]/swe.K, kp/swe.K, swe.LMax)
		_, piDown, tauDown := specfun.LegendreNormalized(kzDown[ik]/swe.K, kp/swe.K, swe.LMax)

		for tau := multipole.TE; tau <= multipole.TM; tau++ {
			for l := 1; l <= swe.LMax; l++ {
				mm := min(l, swe.MMax)
				for m := -mm; m <= mm; m++ {
					b := swe.Coefficient(tau, l, m)
					if b == 0 {
						continue
					}
					for pol := multipole.TE; pol <= multipole.TM; pol++ {
						bUp := transformationFromTables(tau, l, m, pol, piUp, tauUp, false)
						bDown := transformationFromTables(tau, l, m, pol, piDown, tauDown, false)
						for ia, alpha := range azimuthalAngles {
							eima := cmplx.Exp(complex(0, float64(m)*alpha))
							up.Coefficients[pol].Set(ik, ia, up.Coefficients[pol].At(ik, ia)+b*bUp*eima)
							down.Coefficients[pol].Set(ik, ia, down.Coefficients[pol].At(ik, ia)+b*bDown*eima)
						}
					}
				}
			}
		}

		// Spectral normalization and the phase translating the reference point.
		scale := 1 / (2 * math.Pi * swe.K * kzUp[ik])
		for ia, alpha := range azimuthalAngles {
			kx := kp * complex(math.Cos(alpha), 0)
			ky := kp * complex(math.Sin(alpha), 0)
			inPlane := kx*complex(shift.X, 0) + ky*complex(shift.Y, 0)
			phUp := cmplx.Exp(complex(0, 1) * (inPlane + kzUp[ik]*complex(shift.Z, 0)))
			phDown := cmplx.Exp(complex(0, 1) * (inPlane + kzDown[ik]*complex(shift.Z, 0)))
			for pol := 0; pol < 2; pol++ {
				up.Coefficients[pol].Set(ik, ia, up.Coefficients[pol].At(ik, ia)*scale*phUp)
				down.Coefficients[pol].Set(ik, ia, down.Coefficients[pol].At(ik, ia)*scale*phDown)
			}
		}
	}
	return up, down, nil
}

// PweToSwe integrates a plane wave expansion against the adjoint
// transformation kernel to obtain the regular spherical wave expansion with
// the given cutoffs about ref. The reference height must lie inside the
// expansion's validity interval.
func PweToSwe(pwe *field.PlaneWaveExpansion, lMax, mMax int, ref r3.Vec) (*field.SphericalWaveExpansion, error) {
	if !pwe.ValidBetween.Contains(ref.Z) {
		return nil, fmt.Errorf("%w: reference height %g outside [%g, %g]",
			field.ErrDomainValidity, ref.Z, pwe.ValidBetween.Lower, pwe.ValidBetween.Upper)
	}

	swe := field.NewSphericalWaveExpansion(pwe.K, lMax, mMax, multipole.Regular, ref, field.UnboundedInterval())
	kz := pwe.Kz()
	shift := r3.Sub(ref, pwe.ReferencePoint)
	nk, na := len(pwe.KParallel), len(pwe.AzimuthalAngles)

	// Coefficients with the reference translation phase applied.
	shifted := [2][][]complex128{}
	for pol := 0; pol < 2; pol++ {
		shifted[pol] = make([][]complex128, nk)
		for ik, kp := range pwe.KParallel {
			shifted[pol][ik] = make([]complex128, na)
			for ia, alpha := range pwe.AzimuthalAngles {
				kx := kp * complex(math.Cos(alpha), 0)
				ky := kp * complex(math.Sin(alpha), 0)
				ph := cmplx.Exp(complex(0, 1) * (kx*complex(shift.X, 0) + ky*complex(shift.Y, 0) + kz[ik]*complex(shift.Z, 0)))
				shifted[pol][ik][ia] = pwe.Coefficients[pol].At(ik, ia) * ph
			}
		}
	}

	piTab := make([][][]complex128, nk)
	tauTab := make([][][]complex128, nk)
	for ik, kp := range pwe.KParallel {
		_, piTab[ik], tauTab[ik] = specfun.LegendreNormalized(kz[ik]/pwe.K, kp/pwe.K, lMax)
	}

	inner := make([]complex128, na)
	outer := make([]complex128, nk)
	for tau := multipole.TE; tau <= multipole.TM; tau++ {
		for m := -mMax; m <= mMax; m++ {
			for l := max(1, iabs(m)); l <= lMax; l++ {
				for ik := range pwe.KParallel {
					var bDag [2]complex128
					for pol := multipole.TE; pol <= multipole.TM; pol++ {
						bDag[pol] = transformationFromTables(tau, l, m, pol, piTab[ik], tauTab[ik], true)
					}
					for ia, alpha := range pwe.AzimuthalAngles {
						emima := cmplx.Exp(complex(0, -float64(m)*alpha))
						inner[ia] = emima * (bDag[0]*shifted[0][ik][ia] + bDag[1]*shifted[1][ik][ia])
					}
					if na > 1 {
						outer[ik] = util.TrapzReal(pwe.AzimuthalAngles, inner)
					} else {
						outer[ik] = inner[0]
					}
				}
				var an complex128
				if nk > 1 {
					for ik, kp := range pwe.KParallel {
						outer[ik] *= kp
					}
					an = util.Trapz(pwe.KParallel, outer)
				} else {
					an = outer[0]
				}
				swe.SetCoefficient(tau, l, m, 4*an)
			}
		}
	}
	return swe, nil
}

func iabs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
