// Package source provides initial-field providers expanding an exciting
// field locally around each particle.
package source

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/field"
	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/particle"
	"github.com/parkerwray/smuthi-1/pkg/transform"
)

// PlaneWave is a linearly polarized plane wave excitation. Its local
// expansion around a particle is obtained by projecting the corresponding
// discrete (single-sample) plane wave spectrum onto regular spherical waves.
type PlaneWave struct {
	Wavelength     float64 // vacuum wavelength
	PolarAngle     float64 // 0 means propagation along +z
	AzimuthalAngle float64
	Polarization   multipole.Polarization
	Amplitude      complex128
	ReferencePoint r3.Vec // point of zero phase
}

func (pw *PlaneWave) VacuumWavelength() float64 {
	return pw.Wavelength
}

// SphericalWaveExpansion returns the regular expansion of the plane wave
// around the particle position with the particle's cutoffs.
func (pw *PlaneWave) SphericalWaveExpansion(p *particle.Particle, layers particle.LayerSystem) (*field.SphericalWaveExpansion, error) {
	if !pw.Polarization.Valid() {
		return nil, fmt.Errorf("%w: %d", field.ErrInvalidPolarization, int(pw.Polarization))
	}
	layer := layers.LayerNumber(p.Position.Z)
	k := complex(field.AngularFrequency(pw.Wavelength), 0) * layers.RefractiveIndex(layer)

	kp := k * complex(math.Sin(pw.PolarAngle), 0)
	dir := field.Up
	if math.Cos(pw.PolarAngle) < 0 {
		dir = field.Down
	}

	pwe := field.NewPlaneWaveExpansion(k, []complex128{kp}, []float64{pw.AzimuthalAngle},
		dir, pw.ReferencePoint, field.UnboundedInterval())
	pwe.Coefficients[pw.Polarization].Set(0, 0, pw.Amplitude)

	swe, err := transform.PweToSwe(pwe, p.LMax, p.MMax, p.Position)
	if err != nil {
		return nil, fmt.Errorf("expanding plane wave around particle: %v", err)
	}
	return swe, nil
}
