package field

import (
	"math"
	"math/cmplx"
)

// AngularFrequency converts a vacuum wavelength to the angular frequency in
// units where the vacuum speed of light is one, so that the wavenumber in a
// medium of refractive index n is AngularFrequency(wl) * n.
func AngularFrequency(vacuumWavelength float64) float64 {
	return 2 * math.Pi / vacuumWavelength
}

// Kz is the out-of-plane wavenumber sqrt(k^2 - kp^2) on the physical branch:
// non-negative imaginary part, and non-negative real part when purely
// propagating.
func Kz(kp, k complex128) complex128 {
	kz := cmplx.Sqrt(k*k - kp*kp)
	if imag(kz) < 0 {
		kz = -kz
	}
	if imag(kz) == 0 && real(kz) < 0 {
		kz = -kz
	}
	return kz
}

// ContourKParallel samples the in-plane wavenumber from zero to kpMax with
// roughly n nodes, deflecting the path into the lower complex half-plane by
// dip around the branch point at |k| so that integrands stay bounded there.
func ContourKParallel(k complex128, kpMax float64, n int, dip float64) []complex128 {
	kr := cmplx.Abs(k)
	waypoints := []complex128{
		0,
		complex(0.8*kr, 0),
		complex(0.8*kr, -dip),
		complex(1.2*kr, -dip),
		complex(1.2*kr, 0),
		complex(kpMax, 0),
	}
	var nodes []complex128
	total := 0.0
	segs := make([]float64, len(waypoints)-1)
	for i := range segs {
		segs[i] = cmplx.Abs(waypoints[i+1] - waypoints[i])
		total += segs[i]
	}
	for i := 0; i < len(waypoints)-1; i++ {
		ni := int(math.Round(float64(n) * segs[i] / total))
		if ni < 2 {
			ni = 2
		}
		for t := 0; t < ni; t++ {
			frac := complex(float64(t)/float64(ni), 0)
			nodes = append(nodes, waypoints[i]+(waypoints[i+1]-waypoints[i])*frac)
		}
	}
	return append(nodes, waypoints[len(waypoints)-1])
}

// Interval is a closed axial validity range.
type Interval struct {
	Lower, Upper float64
}

// UnboundedInterval covers the whole z axis.
func UnboundedInterval() Interval {
	return Interval{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// Intersect returns the overlap of two intervals. The result may be empty
// (Lower > Upper) when the operands do not overlap.
func (iv Interval) Intersect(other Interval) Interval {
	return Interval{
		Lower: math.Max(iv.Lower, other.Lower),
		Upper: math.Min(iv.Upper, other.Upper),
	}
}

// Contains reports whether z lies inside the interval.
func (iv Interval) Contains(z float64) bool {
	return z >= iv.Lower && z <= iv.Upper
}
