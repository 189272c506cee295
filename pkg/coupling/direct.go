// Package coupling provides particle-pair coupling blocks for homogeneous
// host media, built on the spherical wave translation operator, and a radial
// lookup table accelerating their application for coplanar particle sets.
package coupling

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/field"
	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/particle"
	"github.com/parkerwray/smuthi-1/pkg/transform"
)

// ErrCoincidentParticles is returned when distinct particles share a
// position, for which the translation operator is singular.
var ErrCoincidentParticles = errors.New("coincident particle positions")

// FreeSpace couples particles through an unbounded homogeneous medium: the
// direct block is the outgoing-to-regular translation of the emitter's field
// to the receiver's origin, and there is no layer-mediated contribution.
type FreeSpace struct{}

// DirectCouplingBlock returns the block W with
// W[n1, n2] = A_{n2, n1}(r_receiver - r_emitter): the emitter's outgoing
// partial wave n2 re-expanded into the receiver's regular partial wave n1.
// The self block and blocks between particles in different layers are zero.
func (FreeSpace) DirectCouplingBlock(vacuumWavelength float64, receiver, emitter *particle.Particle, layers particle.LayerSystem) (*mat.CDense, error) {
	rows, cols := receiver.BlockSize(), emitter.BlockSize()
	block := mat.NewCDense(rows, cols, nil)
	if receiver == emitter {
		return block, nil
	}
	if layers.LayerNumber(receiver.Position.Z) != layers.LayerNumber(emitter.Position.Z) {
		return block, nil
	}
	d := r3.Sub(receiver.Position, emitter.Position)
	if d.X == 0 && d.Y == 0 && d.Z == 0 {
		return nil, fmt.Errorf("%w: receiver and emitter both at (%g, %g, %g)",
			ErrCoincidentParticles, receiver.Position.X, receiver.Position.Y, receiver.Position.Z)
	}

	layer := layers.LayerNumber(receiver.Position.Z)
	k := complex(field.AngularFrequency(vacuumWavelength), 0) * layers.RefractiveIndex(layer)
	tables := transform.NewTranslationTables(k, d, receiver.LMax+emitter.LMax, multipole.Regular)

	for n1 := 0; n1 < rows; n1++ {
		tau1, l1, m1 := multipole.MultiIndex(n1, receiver.LMax, receiver.MMax)
		for n2 := 0; n2 < cols; n2++ {
			tau2, l2, m2 := multipole.MultiIndex(n2, emitter.LMax, emitter.MMax)
			block.Set(n1, n2, transform.TranslationCoefficientFromTables(tau2, l2, m2, tau1, l1, m1, tables))
		}
	}
	return block, nil
}

// LayerMediatedCouplingBlock is zero in free space: there are no interfaces
// to reflect from.
func (FreeSpace) LayerMediatedCouplingBlock(vacuumWavelength float64, receiver, emitter *particle.Particle, layers particle.LayerSystem) (*mat.CDense, error) {
	return mat.NewCDense(receiver.BlockSize(), emitter.BlockSize(), nil), nil
}
