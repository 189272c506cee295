package coupling

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/field"
	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/particle"
	"github.com/parkerwray/smuthi-1/pkg/transform"
)

func newParticle(pos r3.Vec, lMax int) *particle.Particle {
	return &particle.Particle{Position: pos, LMax: lMax, MMax: lMax}
}

func TestFreeSpaceSelfBlockZero(t *testing.T) {
	p := newParticle(r3.Vec{X: 1}, 2)
	block, err := FreeSpace{}.DirectCouplingBlock(550, p, p, particle.Homogeneous{N: 1})
	require.NoError(t, err)
	r, c := block.Dims()
	assert.Equal(t, p.BlockSize(), r)
	assert.Equal(t, p.BlockSize(), c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Zero(t, block.At(i, j))
		}
	}
}

func TestFreeSpaceBlockMatchesTranslation(t *testing.T) {
	recv := newParticle(r3.Vec{X: 200, Y: 100}, 2)
	emit := newParticle(r3.Vec{X: -150, Z: 50}, 1)
	layers := particle.Homogeneous{N: complex(1.5, 0)}
	wl := 550.0

	block, err := FreeSpace{}.DirectCouplingBlock(wl, recv, emit, layers)
	require.NoError(t, err)

	k := complex(field.AngularFrequency(wl), 0) * layers.RefractiveIndex(0)
	d := r3.Sub(recv.Position, emit.Position)
	for n1 := 0; n1 < recv.BlockSize(); n1++ {
		tau1, l1, m1 := multipole.MultiIndex(n1, recv.LMax, recv.MMax)
		for n2 := 0; n2 < emit.BlockSize(); n2++ {
			tau2, l2, m2 := multipole.MultiIndex(n2, emit.LMax, emit.MMax)
			want := transform.TranslationCoefficient(tau2, l2, m2, tau1, l1, m1, k, d)
			got := block.At(n1, n2)
			assert.InDelta(t, real(want), real(got), 1e-12, "n1=%d n2=%d", n1, n2)
			assert.InDelta(t, imag(want), imag(got), 1e-12, "n1=%d n2=%d", n1, n2)
		}
	}
}

func TestFreeSpaceCoincidentParticles(t *testing.T) {
	a := newParticle(r3.Vec{X: 5}, 1)
	b := newParticle(r3.Vec{X: 5}, 1)
	_, err := FreeSpace{}.DirectCouplingBlock(550, a, b, particle.Homogeneous{N: 1})
	assert.ErrorIs(t, err, ErrCoincidentParticles)
}

func TestFreeSpaceLayerMediatedZero(t *testing.T) {
	a := newParticle(r3.Vec{}, 1)
	b := newParticle(r3.Vec{X: 100}, 1)
	block, err := FreeSpace{}.LayerMediatedCouplingBlock(550, a, b, particle.Homogeneous{N: 1})
	require.NoError(t, err)
	for i := 0; i < a.BlockSize(); i++ {
		for j := 0; j < b.BlockSize(); j++ {
			assert.Zero(t, block.At(i, j))
		}
	}
}

func TestRadialLookupMatchesKernelAtNodes(t *testing.T) {
	const lMax = 2
	particles := []*particle.Particle{
		newParticle(r3.Vec{}, lMax),
		newParticle(r3.Vec{X: 300}, lMax),
		newParticle(r3.Vec{Y: 400}, lMax),
	}
	layers := particle.Homogeneous{N: 1}
	wl := 550.0
	lk, err := NewRadialLookup(wl, particles, layers, 100)
	require.NoError(t, err)

	gotL, gotM := lk.Cutoffs()
	assert.Equal(t, lMax, gotL)
	assert.Equal(t, lMax, gotM)

	k := complex(field.AngularFrequency(wl), 0)
	bs := multipole.BlockSize(lMax, lMax)
	for _, rho := range []float64{300, 400, 500} {
		tables := transform.NewTranslationTables(k, r3.Vec{X: rho}, 2*lMax, multipole.Regular)
		for n1 := 0; n1 < bs; n1++ {
			tau1, l1, m1 := multipole.MultiIndex(n1, lMax, lMax)
			for n2 := 0; n2 < bs; n2++ {
				tau2, l2, m2 := multipole.MultiIndex(n2, lMax, lMax)
				want := transform.RadialPart(tau2, l2, m2, tau1, l1, m1, tables)
				got := lk.Eval(n1, n2, rho)
				assert.InDelta(t, 0, cmplx.Abs(got-want), 1e-10, "rho=%g n1=%d n2=%d", rho, n1, n2)
			}
		}
	}
}

func TestRadialLookupMixedCutoffs(t *testing.T) {
	particles := []*particle.Particle{
		newParticle(r3.Vec{}, 1),
		newParticle(r3.Vec{X: 300}, 2),
	}
	layers := particle.Homogeneous{N: 1}
	wl := 550.0
	lk, err := NewRadialLookup(wl, particles, layers, 100)
	require.NoError(t, err)

	// The table carries the ensemble-maximum cutoffs.
	gotL, gotM := lk.Cutoffs()
	assert.Equal(t, 2, gotL)
	assert.Equal(t, 2, gotM)

	// Entries between a low-order and a high-order index match the kernel.
	k := complex(field.AngularFrequency(wl), 0)
	tables := transform.NewTranslationTables(k, r3.Vec{X: 300}, 4, multipole.Regular)
	n1 := multipole.FlatIndex(multipole.TE, 1, 1, 2, 2)
	n2 := multipole.FlatIndex(multipole.TM, 2, -1, 2, 2)
	want := transform.RadialPart(multipole.TM, 2, -1, multipole.TE, 1, 1, tables)
	assert.InDelta(t, 0, cmplx.Abs(lk.Eval(n1, n2, 300)-want), 1e-10)
}

func TestRadialLookupInterpolates(t *testing.T) {
	particles := []*particle.Particle{
		newParticle(r3.Vec{}, 1),
		newParticle(r3.Vec{X: 300}, 1),
		newParticle(r3.Vec{X: 700}, 1),
	}
	lk, err := NewRadialLookup(550, particles, particle.Homogeneous{N: 1}, 1)
	require.NoError(t, err)

	// Between neighboring nodes the value lies on the chord.
	a := lk.Eval(0, 0, 350)
	b := lk.Eval(0, 0, 351)
	mid := lk.Eval(0, 0, 350.5)
	assert.InDelta(t, 0, cmplx.Abs(mid-(a+b)/2), 1e-12)

	// Out-of-range distances clamp.
	assert.Equal(t, lk.Eval(0, 0, 300), lk.Eval(0, 0, 10))
	assert.NotPanics(t, func() { lk.Eval(0, 0, 1e6) })
}

func TestRadialLookupErrors(t *testing.T) {
	flat := []*particle.Particle{newParticle(r3.Vec{}, 1), newParticle(r3.Vec{X: 100}, 1)}

	_, err := NewRadialLookup(550, flat[:1], particle.Homogeneous{N: 1}, 10)
	assert.Error(t, err)

	_, err = NewRadialLookup(550, flat, particle.Homogeneous{N: 1}, 0)
	assert.Error(t, err)

	tilted := []*particle.Particle{newParticle(r3.Vec{}, 1), newParticle(r3.Vec{X: 100, Z: 50}, 1)}
	_, err = NewRadialLookup(550, tilted, particle.Homogeneous{N: 1}, 10)
	assert.ErrorIs(t, err, ErrNotCoplanar)

	stacked := []*particle.Particle{newParticle(r3.Vec{}, 1), newParticle(r3.Vec{}, 1)}
	_, err = NewRadialLookup(550, stacked, particle.Homogeneous{N: 1}, 10)
	assert.ErrorIs(t, err, ErrCoincidentParticles)
}
