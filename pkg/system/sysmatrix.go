package system

import (
	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/particle"
)

// SystemMatrix maps between per-particle multipole indices and positions in
// the concatenated coefficient vector of the ensemble.
type SystemMatrix struct {
	particles []*particle.Particle
	offsets   []int
	size      int
}

// NewSystemMatrix lays out the coefficient vector as the concatenation of the
// particles' multipole blocks in the given order.
func NewSystemMatrix(particles []*particle.Particle) *SystemMatrix {
	s := &SystemMatrix{
		particles: particles,
		offsets:   make([]int, len(particles)),
	}
	for i, p := range particles {
		s.offsets[i] = s.size
		s.size += p.BlockSize()
	}
	return s
}

// Size returns the total coefficient vector length.
func (s *SystemMatrix) Size() int { return s.size }

// Particles returns the ensemble in layout order.
func (s *SystemMatrix) Particles() []*particle.Particle { return s.particles }

// BlockRange returns the half-open index range [lo, hi) of particle i's block.
func (s *SystemMatrix) BlockRange(i int) (lo, hi int) {
	return s.offsets[i], s.offsets[i] + s.particles[i].BlockSize()
}

// Index returns the coefficient vector position of partial wave
// (tau, l, m) of particle i.
func (s *SystemMatrix) Index(i int, tau multipole.Polarization, l, m int) int {
	p := s.particles[i]
	return s.offsets[i] + multipole.FlatIndex(tau, l, m, p.LMax, p.MMax)
}
