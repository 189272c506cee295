package system

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/particle"
)

// NewCouplingMatrix assembles the dense coupling matrix W of the ensemble
// from the provider's direct and layer-mediated pair blocks. W[n1, n2]
// couples the emitting global index n2 into the receiving global index n1.
func NewCouplingMatrix(vacuumWavelength float64, sys *SystemMatrix, layers particle.LayerSystem, provider particle.CouplingProvider) (*mat.CDense, error) {
	w := mat.NewCDense(sys.Size(), sys.Size(), nil)
	particles := sys.Particles()
	for i, recv := range particles {
		rlo, _ := sys.BlockRange(i)
		for j, emit := range particles {
			clo, _ := sys.BlockRange(j)
			direct, err := provider.DirectCouplingBlock(vacuumWavelength, recv, emit, layers)
			if err != nil {
				return nil, fmt.Errorf("direct coupling block (%d, %d): %w", i, j, err)
			}
			mediated, err := provider.LayerMediatedCouplingBlock(vacuumWavelength, recv, emit, layers)
			if err != nil {
				return nil, fmt.Errorf("layer mediated coupling block (%d, %d): %w", i, j, err)
			}
			for n1 := 0; n1 < recv.BlockSize(); n1++ {
				for n2 := 0; n2 < emit.BlockSize(); n2++ {
					w.Set(rlo+n1, clo+n2, direct.At(n1, n2)+mediated.At(n1, n2))
				}
			}
		}
	}
	return w, nil
}

// lookupCoupling applies W through a radial lookup table. Valid for coplanar
// particles: the pair coefficient factorizes into the tabulated radial kernel
// and an azimuthal phase depending only on the difference of the m orders.
// The table is indexed by the lookup's cutoffs; each particle's block indices
// gather into that index space, so mixed per-particle cutoffs read a subset
// of the table.
type lookupCoupling struct {
	sys    *SystemMatrix
	lookup particle.RadialLookupProvider
	gidx   [][]int     // table index per particle and local block index
	ms     [][]int     // m order per particle and local block index
	rho    [][]float64 // in-plane distance per (receiver, emitter) pair
	phase  [][][]complex128
}

// NewLookupCouplingOperator wraps a radial lookup as a coupling operator.
// Particle cutoffs must not exceed the cutoffs the lookup was built for.
func NewLookupCouplingOperator(sys *SystemMatrix, lookup particle.RadialLookupProvider) (Operator, error) {
	lMax, mMax := lookup.Cutoffs()
	particles := sys.Particles()
	for i, p := range particles {
		if p.LMax > lMax || p.MMax > mMax {
			return nil, fmt.Errorf("%w: particle %d cutoffs (%d, %d), lookup built for (%d, %d)",
				ErrUnsupportedConfig, i, p.LMax, p.MMax, lMax, mMax)
		}
	}

	lc := &lookupCoupling{
		sys:    sys,
		lookup: lookup,
		gidx:   make([][]int, len(particles)),
		ms:     make([][]int, len(particles)),
		rho:    make([][]float64, len(particles)),
		phase:  make([][][]complex128, len(particles)),
	}
	for i, p := range particles {
		bs := p.BlockSize()
		lc.gidx[i] = make([]int, bs)
		lc.ms[i] = make([]int, bs)
		for n := 0; n < bs; n++ {
			tau, l, m := multipole.MultiIndex(n, p.LMax, p.MMax)
			lc.gidx[i][n] = multipole.FlatIndex(tau, l, m, lMax, mMax)
			lc.ms[i][n] = m
		}
	}
	// Phases for all m order differences, indexed by delta + 2*mMax.
	for i, recv := range particles {
		lc.rho[i] = make([]float64, len(particles))
		lc.phase[i] = make([][]complex128, len(particles))
		for j, emit := range particles {
			if i == j {
				continue
			}
			d := r3.Sub(recv.Position, emit.Position)
			lc.rho[i][j] = math.Hypot(d.X, d.Y)
			phi := math.Atan2(d.Y, d.X)
			phases := make([]complex128, 4*mMax+1)
			for delta := -2 * mMax; delta <= 2*mMax; delta++ {
				phases[delta+2*mMax] = cmplx.Exp(complex(0, float64(delta)*phi))
			}
			lc.phase[i][j] = phases
		}
	}
	return lc, nil
}

func (lc *lookupCoupling) Size() int { return lc.sys.Size() }

func (lc *lookupCoupling) Apply(dst, src []complex128) {
	particles := lc.sys.Particles()
	for i, recv := range particles {
		rlo, _ := lc.sys.BlockRange(i)
		for n1 := 0; n1 < recv.BlockSize(); n1++ {
			var sum complex128
			for j, emit := range particles {
				if j == i {
					continue
				}
				clo, _ := lc.sys.BlockRange(j)
				rho := lc.rho[i][j]
				phases := lc.phase[i][j]
				center := (len(phases) - 1) / 2
				for n2 := 0; n2 < emit.BlockSize(); n2++ {
					kernel := lc.lookup.Eval(lc.gidx[i][n1], lc.gidx[j][n2], rho)
					sum += phases[lc.ms[j][n2]-lc.ms[i][n1]+center] * kernel * src[clo+n2]
				}
			}
			dst[rlo+n1] = sum
		}
	}
}
