// Package particle defines the scatterer description and the collaborator
// interfaces through which the linear-system engine obtains excitation,
// background-medium and coupling information.
package particle

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/field"
	"github.com/parkerwray/smuthi-1/pkg/multipole"
)

// Particle is one scatterer: its position, multipole cutoffs, externally
// supplied T-matrix, and the per-solve excitation and solution expansions.
type Particle struct {
	Position   r3.Vec
	LMax, MMax int

	// TMatrix maps incident to scattered multipole coefficients. It is a
	// square matrix of size BlockSize(LMax, MMax) and is supplied by the
	// caller, not computed here.
	TMatrix *mat.CDense

	// InitialField is the local regular expansion of the exciting field,
	// overwritten on each solve.
	InitialField *field.SphericalWaveExpansion

	// ScatteredField is the outgoing expansion of the solved response,
	// overwritten on each solve.
	ScatteredField *field.SphericalWaveExpansion
}

// BlockSize is the number of multipole coefficients this particle owns.
func (p *Particle) BlockSize() int {
	return multipole.BlockSize(p.LMax, p.MMax)
}

// LayerSystem describes the planarly stratified background medium.
type LayerSystem interface {
	// LayerNumber returns the index of the layer containing height z.
	LayerNumber(z float64) int
	// RefractiveIndex returns the (possibly complex) refractive index of
	// layer i.
	RefractiveIndex(i int) complex128
	// LowerZLimit and UpperZLimit bound layer i.
	LowerZLimit(i int) float64
	UpperZLimit(i int) float64
}

// InitialFieldProvider expands the exciting field locally around a particle.
type InitialFieldProvider interface {
	// SphericalWaveExpansion returns the particle's regular excitation
	// expansion with the particle's cutoffs and reference point.
	SphericalWaveExpansion(p *Particle, layers LayerSystem) (*field.SphericalWaveExpansion, error)
	// VacuumWavelength of the excitation.
	VacuumWavelength() float64
}

// CouplingProvider yields the coupling blocks between ordered particle
// pairs. Both blocks have shape receiver.BlockSize() x emitter.BlockSize().
type CouplingProvider interface {
	// DirectCouplingBlock couples the emitter's outgoing field to the
	// receiver's incident expansion through the homogeneous host medium.
	DirectCouplingBlock(vacuumWavelength float64, receiver, emitter *Particle, layers LayerSystem) (*mat.CDense, error)
	// LayerMediatedCouplingBlock couples through reflections at the layer
	// interfaces.
	LayerMediatedCouplingBlock(vacuumWavelength float64, receiver, emitter *Particle, layers LayerSystem) (*mat.CDense, error)
}

// RadialLookupProvider evaluates the radial coupling kernel between combined
// multipole indices at arbitrary in-plane distances, typically by
// interpolation in a precomputed table. Combined indices refer to the flat
// index under the maximum cutoffs of the particle ensemble.
type RadialLookupProvider interface {
	// Eval returns the radial kernel between receiving combined index n1 and
	// emitting combined index n2 at in-plane distance rho.
	Eval(n1, n2 int, rho float64) complex128
	// Cutoffs returns the combined cutoffs the indices refer to.
	Cutoffs() (lMax, mMax int)
}

// Homogeneous is the trivial single-layer system: an unbounded medium of one
// refractive index.
type Homogeneous struct {
	N complex128
}

func (h Homogeneous) LayerNumber(z float64) int           { return 0 }
func (h Homogeneous) RefractiveIndex(i int) complex128    { return h.N }
func (h Homogeneous) LowerZLimit(i int) float64           { return math.Inf(-1) }
func (h Homogeneous) UpperZLimit(i int) float64           { return math.Inf(1) }
