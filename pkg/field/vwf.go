package field

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/specfun"
)

// PlaneVectorWaveFunction evaluates the electric field of a single plane
// partial wave exp(i k.r) e_pol at the point p, where the wavevector is given
// by its in-plane magnitude kp, azimuth alpha and out-of-plane component kz.
// Polarization TE points along the azimuthal unit vector, TM along the polar
// one.
func PlaneVectorWaveFunction(p r3.Vec, kp complex128, alpha float64, kz complex128, pol multipole.Polarization) (ex, ey, ez complex128, err error) {
	if !pol.Valid() {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrInvalidPolarization, int(pol))
	}
	k := cmplx.Sqrt(kp*kp + kz*kz)
	ca := complex(math.Cos(alpha), 0)
	sa := complex(math.Sin(alpha), 0)
	kx := kp * ca
	ky := kp * sa

	wave := cmplx.Exp(complex(0, 1) * (kx*complex(p.X, 0) + ky*complex(p.Y, 0) + kz*complex(p.Z, 0)))

	if pol == multipole.TE {
		return -sa * wave, ca * wave, 0, nil
	}
	return ca * kz / k * wave, sa * kz / k * wave, -kp / k * wave, nil
}

// SphericalVectorWaveFunction evaluates the electric field of a single
// spherical partial wave at the point p, taken relative to the expansion
// origin. The conventions follow Doicu, Wriedt and Eremin, "Light Scattering
// by Systems of Particles". Evaluation exactly at the origin is undefined and
// must be excluded by the caller; points on the polar axis are fine.
func SphericalVectorWaveFunction(p r3.Vec, k complex128, kind multipole.Kind, tau multipole.Polarization, l, m int) (ex, ey, ez complex128, err error) {
	if !tau.Valid() {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrInvalidPolarization, int(tau))
	}
	if !kind.Valid() {
		return 0, 0, 0, fmt.Errorf("%w: %d", ErrInvalidKind, int(kind))
	}

	g := newPointGeometry(p)
	var radial radialTables
	radial.fill(k, g.r, kind, l)
	plm, pilm, taulm := specfun.LegendreNormalized(complex(g.ct, 0), complex(g.st, 0), l)
	ex, ey, ez = partialWave(g, radial, plm, pilm, taulm, tau, l, m)
	return ex, ey, ez, nil
}

// pointGeometry caches the spherical coordinates and unit vectors of one
// evaluation point.
type pointGeometry struct {
	r      float64
	ct, st float64 // cos/sin of the polar angle
	phi    float64
	er     r3.Vec
	eth    r3.Vec
	eph    r3.Vec
}

func newPointGeometry(p r3.Vec) pointGeometry {
	r := r3.Norm(p)
	theta := math.Acos(p.Z / r)
	phi := math.Atan2(p.Y, p.X)
	ct, st := math.Cos(theta), math.Sin(theta)
	cp, sp := math.Cos(phi), math.Sin(phi)
	return pointGeometry{
		r:   r,
		ct:  ct,
		st:  st,
		phi: phi,
		er:  r3.Vec{X: p.X / r, Y: p.Y / r, Z: p.Z / r},
		eth: r3.Vec{X: ct * cp, Y: ct * sp, Z: -st},
		eph: r3.Vec{X: -sp, Y: cp, Z: 0},
	}
}

func specfunTables(g pointGeometry, lMax int) (plm, pilm, taulm [][]complex128) {
	return specfun.LegendreNormalized(complex(g.ct, 0), complex(g.st, 0), lMax)
}

// radialTables caches z_l(kr) and d/dx[x z_l(x)] at x = kr for one point.
type radialTables struct {
	kr   complex128
	z    []complex128
	dxxz []complex128
}

func (t *radialTables) fill(k complex128, r float64, kind multipole.Kind, lMax int) {
	t.kr = k * complex(r, 0)
	if kind == multipole.Regular {
		t.z = specfun.SphericalBessel(lMax, t.kr)
	} else {
		t.z = specfun.SphericalHankel(lMax, t.kr)
	}
	t.dxxz = specfun.DxXZ(t.z, t.kr)
}

// partialWave assembles the Cartesian field components of one (tau, l, m)
// partial wave from precomputed geometry and function tables.
func partialWave(g pointGeometry, radial radialTables, plm, pilm, taulm [][]complex128, tau multipole.Polarization, l, m int) (ex, ey, ez complex128) {
	am := m
	if am < 0 {
		am = -am
	}
	pl := plm[l][am]
	pil := pilm[l][am]
	taul := taulm[l][am]

	eimphi := cmplx.Exp(complex(0, float64(m)*g.phi))
	prefac := complex(1/math.Sqrt(float64(2*l*(l+1))), 0)
	im := complex(0, float64(m))

	if tau == multipole.TE {
		f := prefac * radial.z[l] * eimphi
		ex = f * (im*pil*complex(g.eth.X, 0) - taul*complex(g.eph.X, 0))
		ey = f * (im*pil*complex(g.eth.Y, 0) - taul*complex(g.eph.Y, 0))
		ez = f * (im*pil*complex(g.eth.Z, 0) - taul*complex(g.eph.Z, 0))
		return ex, ey, ez
	}

	ll1 := complex(float64(l*(l+1)), 0)
	radialPart := ll1 * radial.z[l] / radial.kr * pl
	tangential := radial.dxxz[l] / radial.kr
	f := prefac * eimphi
	ex = f * (radialPart*complex(g.er.X, 0) + tangential*(taul*complex(g.eth.X, 0)+im*pil*complex(g.eph.X, 0)))
	ey = f * (radialPart*complex(g.er.Y, 0) + tangential*(taul*complex(g.eth.Y, 0)+im*pil*complex(g.eph.Y, 0)))
	ez = f * (radialPart*complex(g.er.Z, 0) + tangential*(taul*complex(g.eth.Z, 0)+im*pil*complex(g.eph.Z, 0)))
	return ex, ey, ez
}
