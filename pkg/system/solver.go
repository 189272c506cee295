package system

import (
	"fmt"

	"github.com/parkerwray/smuthi-1/internal/consts"
	"github.com/parkerwray/smuthi-1/pkg/coupling"
	"github.com/parkerwray/smuthi-1/pkg/field"
	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/particle"
)

// SolverKind selects the linear solver.
type SolverKind int

const (
	// Direct factorizes the explicit master matrix by sparse LU.
	Direct SolverKind = iota
	// Iterative runs restarted GMRES, optionally matrix-free.
	Iterative
)

// Options configure the assembly and solution of the scattering system.
type Options struct {
	Solver SolverKind
	// StoreCouplingMatrix materializes W densely. The direct solver
	// requires it and rejects a false value. When false, the iterative
	// solver applies W through a radial lookup table, which demands
	// coplanar particles.
	StoreCouplingMatrix bool
	// LookupResolution is the radial grid spacing of the lookup table.
	// Zero selects a default.
	LookupResolution float64
	// GMRES controls, zero selecting defaults.
	Tolerance     float64
	Restart       int
	MaxIterations int
}

// LinearSystem holds one scattering problem: an excitation, a particle
// ensemble in a layered background, and the solver state.
type LinearSystem struct {
	Particles    []*particle.Particle
	Layers       particle.LayerSystem
	InitialField particle.InitialFieldProvider
	Coupling     particle.CouplingProvider

	opts   Options
	sys    *SystemMatrix
	master *MasterMatrix

	lu           *luFactorization
	generation   int
	luGeneration int

	// Iterations spent by the last iterative solve.
	Iterations int
}

// NewLinearSystem computes the particles' initial field expansions and
// assembles the master operator.
func NewLinearSystem(particles []*particle.Particle, layers particle.LayerSystem, initial particle.InitialFieldProvider, coupl particle.CouplingProvider, opts Options) (*LinearSystem, error) {
	if len(particles) == 0 {
		return nil, fmt.Errorf("no particles")
	}
	if opts.Solver == Direct && !opts.StoreCouplingMatrix {
		return nil, fmt.Errorf("%w: direct solver requires a stored coupling matrix", ErrUnsupportedConfig)
	}
	if opts.LookupResolution == 0 {
		opts.LookupResolution = consts.LookupResolution
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = consts.GmresTolerance
	}
	if opts.Restart == 0 {
		opts.Restart = consts.GmresRestart
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = consts.GmresMaxIterations
	}

	ls := &LinearSystem{
		Particles:    particles,
		Layers:       layers,
		InitialField: initial,
		Coupling:     coupl,
		opts:         opts,
		sys:          NewSystemMatrix(particles),
	}

	for i, p := range particles {
		swe, err := initial.SphericalWaveExpansion(p, layers)
		if err != nil {
			return nil, fmt.Errorf("initial field of particle %d: %w", i, err)
		}
		p.InitialField = swe
	}

	tmat, err := NewTMatrixOperator(ls.sys)
	if err != nil {
		return nil, err
	}

	var w Operator
	if opts.StoreCouplingMatrix {
		wm, err := NewCouplingMatrix(initial.VacuumWavelength(), ls.sys, layers, coupl)
		if err != nil {
			return nil, fmt.Errorf("coupling matrix: %w", err)
		}
		w = NewDenseOperator(wm)
	} else {
		lookup, err := coupling.NewRadialLookup(initial.VacuumWavelength(), particles, layers, opts.LookupResolution)
		if err != nil {
			return nil, fmt.Errorf("%w: radial coupling lookup: %v", ErrUnsupportedConfig, err)
		}
		w, err = NewLookupCouplingOperator(ls.sys, lookup)
		if err != nil {
			return nil, err
		}
	}

	ls.master = NewMasterMatrix(tmat, w)
	return ls, nil
}

// Master returns the assembled master operator.
func (ls *LinearSystem) Master() *MasterMatrix { return ls.master }

// Invalidate marks cached factorizations stale, forcing the next direct
// solve to refactorize. Call it after mutating transition matrices or the
// master matrix in place.
func (ls *LinearSystem) Invalidate() { ls.generation++ }

// Solve determines the scattered field coefficients of all particles and
// stores them as outgoing expansions valid within the particles' layers.
func (ls *LinearSystem) Solve() error {
	ls.Iterations = 0
	rhs, err := RightHandSide(ls.sys)
	if err != nil {
		return err
	}

	var x []complex128
	switch ls.opts.Solver {
	case Direct:
		if !ls.master.HasMatrix() {
			return fmt.Errorf("%w: direct solver needs an explicit master matrix", ErrUnsupportedConfig)
		}
		if ls.lu == nil || ls.luGeneration != ls.generation {
			if ls.lu != nil {
				ls.lu.Destroy()
			}
			ls.lu, err = newLUFactorization(ls.master.Matrix())
			if err != nil {
				return err
			}
			ls.luGeneration = ls.generation
		}
		x, err = ls.lu.Solve(rhs)
		if err != nil {
			return err
		}
	case Iterative:
		x, ls.Iterations, err = gmres(ls.master, rhs, rhs, gmresOptions{
			tolerance:     ls.opts.Tolerance,
			restart:       ls.opts.Restart,
			maxIterations: ls.opts.MaxIterations,
		})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: solver kind %d", ErrUnsupportedConfig, ls.opts.Solver)
	}

	wl := ls.InitialField.VacuumWavelength()
	for i, p := range ls.Particles {
		layer := ls.Layers.LayerNumber(p.Position.Z)
		k := complex(field.AngularFrequency(wl), 0) * ls.Layers.RefractiveIndex(layer)
		valid := field.Interval{
			Lower: ls.Layers.LowerZLimit(layer),
			Upper: ls.Layers.UpperZLimit(layer),
		}
		swe := field.NewSphericalWaveExpansion(k, p.LMax, p.MMax, multipole.Outgoing, p.Position, valid)
		lo, hi := ls.sys.BlockRange(i)
		copy(swe.Coefficients, x[lo:hi])
		p.ScatteredField = swe
	}
	return nil
}

// Destroy releases solver resources.
func (ls *LinearSystem) Destroy() {
	if ls.lu != nil {
		ls.lu.Destroy()
		ls.lu = nil
	}
}
