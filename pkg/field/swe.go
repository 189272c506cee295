// Package field holds the two dual representations of an electromagnetic
// field used by the multiple-scattering engine: spherical wave expansions
// around a local origin and plane wave expansions over in-plane wavevectors.
package field

import (
	"fmt"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/multipole"
)

// SphericalWaveExpansion represents a field around ReferencePoint as a finite
// multipole sum with cutoffs (LMax, MMax). Coefficients are stored flat in
// multipole.FlatIndex order and always have length BlockSize(LMax, MMax).
type SphericalWaveExpansion struct {
	K              complex128
	LMax, MMax     int
	Kind           multipole.Kind
	ReferencePoint r3.Vec
	ValidBetween   Interval
	Coefficients   []complex128
}

// NewSphericalWaveExpansion allocates a zero expansion.
func NewSphericalWaveExpansion(k complex128, lMax, mMax int, kind multipole.Kind, ref r3.Vec, valid Interval) *SphericalWaveExpansion {
	return &SphericalWaveExpansion{
		K:              k,
		LMax:           lMax,
		MMax:           mMax,
		Kind:           kind,
		ReferencePoint: ref,
		ValidBetween:   valid,
		Coefficients:   make([]complex128, multipole.BlockSize(lMax, mMax)),
	}
}

// Coefficient returns the stored coefficient of the (tau, l, m) partial wave.
func (s *SphericalWaveExpansion) Coefficient(tau multipole.Polarization, l, m int) complex128 {
	return s.Coefficients[multipole.FlatIndex(tau, l, m, s.LMax, s.MMax)]
}

// SetCoefficient stores the coefficient of the (tau, l, m) partial wave.
func (s *SphericalWaveExpansion) SetCoefficient(tau multipole.Polarization, l, m int, c complex128) {
	s.Coefficients[multipole.FlatIndex(tau, l, m, s.LMax, s.MMax)] = c
}

// Add returns the sum of two expansions. Both operands must agree in
// wavenumber, cutoffs, kind and reference point; the validity interval of the
// sum is the intersection of the operands' intervals.
func (s *SphericalWaveExpansion) Add(other *SphericalWaveExpansion) (*SphericalWaveExpansion, error) {
	if s.K != other.K || s.LMax != other.LMax || s.MMax != other.MMax ||
		s.Kind != other.Kind || s.ReferencePoint != other.ReferencePoint {
		return nil, fmt.Errorf("%w: spherical wave expansions differ in wavenumber, cutoffs, kind or reference point", ErrInconsistentOperands)
	}
	sum := NewSphericalWaveExpansion(s.K, s.LMax, s.MMax, s.Kind, s.ReferencePoint,
		s.ValidBetween.Intersect(other.ValidBetween))
	copy(sum.Coefficients, s.Coefficients)
	cmplxs.Add(sum.Coefficients, other.Coefficients)
	return sum, nil
}

// ElectricField superposes all stored partial waves at the given points and
// returns the Cartesian field components. Points outside the validity
// interval are evaluated anyway; the caller is responsible for checking.
func (s *SphericalWaveExpansion) ElectricField(points []r3.Vec) (ex, ey, ez []complex128, err error) {
	if !s.Kind.Valid() {
		return nil, nil, nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(s.Kind))
	}
	ex = make([]complex128, len(points))
	ey = make([]complex128, len(points))
	ez = make([]complex128, len(points))

	for ip, p := range points {
		rel := r3.Sub(p, s.ReferencePoint)
		g := newPointGeometry(rel)
		var radial radialTables
		radial.fill(s.K, g.r, s.Kind, s.LMax)
		plm, pilm, taulm := specfunTables(g, s.LMax)

		for tau := multipole.TE; tau <= multipole.TM; tau++ {
			for l := 1; l <= s.LMax; l++ {
				mm := min(l, s.MMax)
				for m := -mm; m <= mm; m++ {
					b := s.Coefficient(tau, l, m)
					if b == 0 {
						continue
					}
					px, py, pz := partialWave(g, radial, plm, pilm, taulm, tau, l, m)
					ex[ip] += b * px
					ey[ip] += b * py
					ez[ip] += b * pz
				}
			}
		}
	}
	return ex, ey, ez, nil
}
