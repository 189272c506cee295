package coupling

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/field"
	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/particle"
	"github.com/parkerwray/smuthi-1/pkg/transform"
)

// ErrNotCoplanar is returned when a radial lookup is requested for
// particles not sharing one z coordinate.
var ErrNotCoplanar = errors.New("particles not coplanar")

// RadialLookup tabulates the azimuth-stripped translation kernel on a uniform
// radial grid. For coplanar particles the full coupling coefficient is the
// tabulated kernel times exp(i (m2 - m1) phi) with phi the azimuth of the
// shift vector, so one table of size blockSize^2 x gridPoints replaces the
// per-pair translation sums.
type RadialLookup struct {
	lMax, mMax int
	blockSize  int
	rhoMin     float64
	step       float64
	values     [][]complex128
}

// NewRadialLookup builds the table for the given ensemble. All particles must
// share one z coordinate; resolution is the radial grid spacing. The table is
// indexed by the ensemble-maximum cutoffs, so mixed per-particle cutoffs read
// a subset of its rows. The grid spans the smallest to the largest
// inter-particle in-plane distance.
func NewRadialLookup(vacuumWavelength float64, particles []*particle.Particle, layers particle.LayerSystem, resolution float64) (*RadialLookup, error) {
	if len(particles) < 2 {
		return nil, fmt.Errorf("radial lookup needs at least two particles, got %d", len(particles))
	}
	if resolution <= 0 {
		return nil, fmt.Errorf("radial lookup resolution must be positive, got %g", resolution)
	}
	z := particles[0].Position.Z
	lMax, mMax := 0, 0
	rhoMin, rhoMax := math.Inf(1), 0.0
	for i, p := range particles {
		if p.Position.Z != z {
			return nil, fmt.Errorf("%w: z = %g and %g", ErrNotCoplanar, z, p.Position.Z)
		}
		lMax = max(lMax, p.LMax)
		mMax = max(mMax, p.MMax)
		for _, q := range particles[:i] {
			d := r3.Sub(p.Position, q.Position)
			rho := math.Hypot(d.X, d.Y)
			if rho == 0 {
				return nil, fmt.Errorf("%w: two particles at (%g, %g, %g)",
					ErrCoincidentParticles, p.Position.X, p.Position.Y, p.Position.Z)
			}
			rhoMin = math.Min(rhoMin, rho)
			rhoMax = math.Max(rhoMax, rho)
		}
	}

	layer := layers.LayerNumber(z)
	k := complex(field.AngularFrequency(vacuumWavelength), 0) * layers.RefractiveIndex(layer)
	blockSize := multipole.BlockSize(lMax, mMax)

	n := int(math.Ceil((rhoMax-rhoMin)/resolution)) + 2
	lk := &RadialLookup{
		lMax:      lMax,
		mMax:      mMax,
		blockSize: blockSize,
		rhoMin:    rhoMin,
		step:      resolution,
		values:    make([][]complex128, blockSize*blockSize),
	}
	for idx := range lk.values {
		lk.values[idx] = make([]complex128, n)
	}
	for j := 0; j < n; j++ {
		rho := rhoMin + float64(j)*resolution
		tables := transform.NewTranslationTables(k, r3.Vec{X: rho}, 2*lMax, multipole.Regular)
		for n1 := 0; n1 < blockSize; n1++ {
			tau1, l1, m1 := multipole.MultiIndex(n1, lMax, mMax)
			for n2 := 0; n2 < blockSize; n2++ {
				tau2, l2, m2 := multipole.MultiIndex(n2, lMax, mMax)
				lk.values[n1*blockSize+n2][j] = transform.RadialPart(tau2, l2, m2, tau1, l1, m1, tables)
			}
		}
	}
	return lk, nil
}

// Eval returns the radial kernel between receiving combined index n1 and
// emitting combined index n2 at in-plane distance rho, linearly interpolated.
// Distances outside the tabulated range clamp to its ends.
func (lk *RadialLookup) Eval(n1, n2 int, rho float64) complex128 {
	row := lk.values[n1*lk.blockSize+n2]
	t := (rho - lk.rhoMin) / lk.step
	if t <= 0 {
		return row[0]
	}
	if t >= float64(len(row)-1) {
		return row[len(row)-1]
	}
	j := int(t)
	frac := complex(t-float64(j), 0)
	return row[j] + frac*(row[j+1]-row[j])
}

// Cutoffs returns the combined cutoffs the table's indices refer to.
func (lk *RadialLookup) Cutoffs() (lMax, mMax int) {
	return lk.lMax, lk.mMax
}
