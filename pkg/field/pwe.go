package field

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/util"
)

// Direction tags a plane wave expansion as up- or down-going.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// PlaneWaveExpansion represents a field as a discretized two-dimensional
// integral over in-plane wavevectors and two polarizations,
//
//	E(r) = sum_pol  integral  g_pol(kp, alpha) Phi_pol(kp, alpha; r - r0),
//
// with the integral running over the stored KParallel and AzimuthalAngles
// grids. A single sample along the wavenumber axis denotes a discrete
// spectral line rather than a continuum to be integrated. Coefficients[pol]
// has one row per wavenumber sample and one column per angle sample.
type PlaneWaveExpansion struct {
	K               complex128
	KParallel       []complex128
	AzimuthalAngles []float64
	Direction       Direction
	ReferencePoint  r3.Vec
	ValidBetween    Interval
	Coefficients    [2]*mat.CDense
}

// NewPlaneWaveExpansion allocates a zero expansion over the given grids.
func NewPlaneWaveExpansion(k complex128, kParallel []complex128, azimuthalAngles []float64, dir Direction, ref r3.Vec, valid Interval) *PlaneWaveExpansion {
	p := &PlaneWaveExpansion{
		K:               k,
		KParallel:       kParallel,
		AzimuthalAngles: azimuthalAngles,
		Direction:       dir,
		ReferencePoint:  ref,
		ValidBetween:    valid,
	}
	for pol := range p.Coefficients {
		p.Coefficients[pol] = mat.NewCDense(len(kParallel), len(azimuthalAngles), nil)
	}
	return p
}

// Kz returns the out-of-plane wavenumber for every wavenumber sample, with
// the sign determined by the propagation direction.
func (p *PlaneWaveExpansion) Kz() []complex128 {
	kz := make([]complex128, len(p.KParallel))
	for i, kp := range p.KParallel {
		kz[i] = Kz(kp, p.K)
		if p.Direction == Down {
			kz[i] = -kz[i]
		}
	}
	return kz
}

// Add returns the sum of two expansions defined over identical grids,
// direction and reference point. The validity interval of the sum is the
// intersection of the operands' intervals.
func (p *PlaneWaveExpansion) Add(other *PlaneWaveExpansion) (*PlaneWaveExpansion, error) {
	if p.K != other.K || p.Direction != other.Direction || p.ReferencePoint != other.ReferencePoint ||
		!equalComplexGrid(p.KParallel, other.KParallel) || !equalFloatGrid(p.AzimuthalAngles, other.AzimuthalAngles) {
		return nil, fmt.Errorf("%w: plane wave expansions differ in wavenumber, grids, direction or reference point", ErrInconsistentOperands)
	}
	sum := NewPlaneWaveExpansion(p.K, p.KParallel, p.AzimuthalAngles, p.Direction, p.ReferencePoint,
		p.ValidBetween.Intersect(other.ValidBetween))
	nk, na := len(p.KParallel), len(p.AzimuthalAngles)
	for pol := 0; pol < 2; pol++ {
		for ik := 0; ik < nk; ik++ {
			for ia := 0; ia < na; ia++ {
				sum.Coefficients[pol].Set(ik, ia, p.Coefficients[pol].At(ik, ia)+other.Coefficients[pol].At(ik, ia))
			}
		}
	}
	return sum, nil
}

// ElectricField evaluates the expansion at the given points. For multi-sample
// wavenumber grids the spectral integral is carried out with the trapezoidal
// rule in both dimensions; a single-sample wavenumber axis is treated as a
// discrete spectral component and evaluated directly.
func (p *PlaneWaveExpansion) ElectricField(points []r3.Vec) (ex, ey, ez []complex128, err error) {
	if !p.Direction.Valid() {
		return nil, nil, nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(p.Direction))
	}
	nk, na := len(p.KParallel), len(p.AzimuthalAngles)
	kz := p.Kz()
	ex = make([]complex128, len(points))
	ey = make([]complex128, len(points))
	ez = make([]complex128, len(points))

	innerX := make([]complex128, na)
	innerY := make([]complex128, na)
	innerZ := make([]complex128, na)
	outerX := make([]complex128, nk)
	outerY := make([]complex128, nk)
	outerZ := make([]complex128, nk)

	for ip, pt := range points {
		rel := r3.Sub(pt, p.ReferencePoint)
		for ik, kp := range p.KParallel {
			for ia, alpha := range p.AzimuthalAngles {
				ca := complex(math.Cos(alpha), 0)
				sa := complex(math.Sin(alpha), 0)
				kx := kp * ca
				ky := kp * sa
				eikr := cmplx.Exp(complex(0, 1) * (kx*complex(rel.X, 0) + ky*complex(rel.Y, 0) + kz[ik]*complex(rel.Z, 0)))
				gTE := p.Coefficients[multipole.TE].At(ik, ia)
				gTM := p.Coefficients[multipole.TM].At(ik, ia)
				innerX[ia] = (-sa*gTE + ca*kz[ik]/p.K*gTM) * eikr
				innerY[ia] = (ca*gTE + sa*kz[ik]/p.K*gTM) * eikr
				innerZ[ia] = -kp / p.K * gTM * eikr
			}
			if na > 1 {
				outerX[ik] = util.TrapzReal(p.AzimuthalAngles, innerX)
				outerY[ik] = util.TrapzReal(p.AzimuthalAngles, innerY)
				outerZ[ik] = util.TrapzReal(p.AzimuthalAngles, innerZ)
			} else {
				outerX[ik] = innerX[0]
				outerY[ik] = innerY[0]
				outerZ[ik] = innerZ[0]
			}
		}
		if nk > 1 {
			// d^2 k measure: kp dkp dalpha.
			for ik, kp := range p.KParallel {
				outerX[ik] *= kp
				outerY[ik] *= kp
				outerZ[ik] *= kp
			}
			ex[ip] = util.Trapz(p.KParallel, outerX)
			ey[ip] = util.Trapz(p.KParallel, outerY)
			ez[ip] = util.Trapz(p.KParallel, outerZ)
		} else {
			// Discrete spectral line: no integration and no measure factor
			// along the wavenumber axis.
			ex[ip] = outerX[0]
			ey[ip] = outerY[0]
			ez[ip] = outerZ[0]
		}
	}
	return ex, ey, ez, nil
}

func equalComplexGrid(a, b []complex128) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalFloatGrid(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
