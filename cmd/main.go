package main

import (
	"flag"
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/coupling"
	"github.com/parkerwray/smuthi-1/pkg/multipole"
	"github.com/parkerwray/smuthi-1/pkg/particle"
	"github.com/parkerwray/smuthi-1/pkg/source"
	"github.com/parkerwray/smuthi-1/pkg/system"
)

var (
	wavelength = flag.Float64("wl", 550, "vacuum wavelength")
	spacing    = flag.Float64("d", 1000, "particle spacing")
	lMax       = flag.Int("lmax", 3, "multipole degree cutoff")
	strength   = flag.Float64("t", 0.2, "diagonal transition matrix entry magnitude")
	solver     = flag.String("solver", "direct", "linear solver: direct or gmres")
)

// scalarTMatrix returns t times the identity on the particle's multipole block.
func scalarTMatrix(lMax, mMax int, t complex128) *mat.CDense {
	n := multipole.BlockSize(lMax, mMax)
	m := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, t)
	}
	return m
}

func main() {
	flag.Parse()

	particles := []*particle.Particle{
		{
			Position: r3.Vec{},
			LMax:     *lMax,
			MMax:     *lMax,
			TMatrix:  scalarTMatrix(*lMax, *lMax, complex(*strength, 0)),
		},
		{
			Position: r3.Vec{X: *spacing},
			LMax:     *lMax,
			MMax:     *lMax,
			TMatrix:  scalarTMatrix(*lMax, *lMax, complex(*strength, 0)),
		},
	}

	excitation := &source.PlaneWave{
		Wavelength:   *wavelength,
		Polarization: multipole.TE,
		Amplitude:    1,
	}

	opts := system.Options{}
	switch *solver {
	case "direct":
		opts.Solver = system.Direct
		opts.StoreCouplingMatrix = true
	case "gmres":
		opts.Solver = system.Iterative
		opts.StoreCouplingMatrix = true
	default:
		log.Fatalf("Unknown solver: %s", *solver)
	}

	ls, err := system.NewLinearSystem(particles, particle.Homogeneous{N: 1}, excitation, coupling.FreeSpace{}, opts)
	if err != nil {
		log.Fatalf("Error assembling scattering system: %v", err)
	}
	defer ls.Destroy()

	if err := ls.Solve(); err != nil {
		log.Fatalf("Error solving scattering system: %v", err)
	}

	if opts.Solver == system.Iterative {
		fmt.Printf("GMRES converged in %d iterations\n", ls.Iterations)
	}

	for i, p := range particles {
		fmt.Printf("\nParticle %d at (%g, %g, %g), scattered field coefficients:\n",
			i, p.Position.X, p.Position.Y, p.Position.Z)
		for n, c := range p.ScatteredField.Coefficients {
			tau, l, m := multipole.MultiIndex(n, p.LMax, p.MMax)
			fmt.Printf("  %s l=%d m=%+d: %g + j%g\n", tau, l, m, real(c), imag(c))
		}
	}
}
