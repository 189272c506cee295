package transform

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/parkerwray/smuthi-1/pkg/field"
	"github.com/parkerwray/smuthi-1/pkg/multipole"
)

// relErr is |got - want| / |want| for complex triples.
func relErr(gx, gy, gz, wx, wy, wz complex128) float64 {
	num := cmplx.Abs(gx-wx) + cmplx.Abs(gy-wy) + cmplx.Abs(gz-wz)
	den := cmplx.Abs(wx) + cmplx.Abs(wy) + cmplx.Abs(wz)
	return num / den
}

func TestTranslationAdditionTheorem(t *testing.T) {
	// An outgoing partial wave re-expanded about a shifted origin must
	// reproduce the original field inside the shift radius.
	const reExpand = 8
	k := complex128(1)
	d := r3.Vec{X: 0.3, Y: -0.4, Z: 2}
	pt := r3.Vec{X: 0.5, Y: -0.2, Z: 1.8} // |pt - d| < |d|

	tables := NewTranslationTables(k, d, 1+reExpand, multipole.Regular)
	for _, src := range []struct {
		tau  multipole.Polarization
		l, m int
	}{
		{multipole.TE, 1, 0},
		{multipole.TM, 1, 1},
		{multipole.TE, 1, -1},
	} {
		wx, wy, wz, err := field.SphericalVectorWaveFunction(pt, k, multipole.Outgoing, src.tau, src.l, src.m)
		require.NoError(t, err)

		var gx, gy, gz complex128
		rel := r3.Sub(pt, d)
		for tau2 := multipole.TE; tau2 <= multipole.TM; tau2++ {
			for l2 := 1; l2 <= reExpand; l2++ {
				for m2 := -l2; m2 <= l2; m2++ {
					a := TranslationCoefficientFromTables(src.tau, src.l, src.m, tau2, l2, m2, tables)
					if a == 0 {
						continue
					}
					px, py, pz, err := field.SphericalVectorWaveFunction(rel, k, multipole.Regular, tau2, l2, m2)
					require.NoError(t, err)
					gx += a * px
					gy += a * py
					gz += a * pz
				}
			}
		}
		assert.Less(t, relErr(gx, gy, gz, wx, wy, wz), 5e-3, "source %v l=%d m=%d", src.tau, src.l, src.m)
	}
}

func TestTranslationOutToOut(t *testing.T) {
	// Outside the shift radius the outgoing-to-outgoing re-expansion applies.
	const reExpand = 8
	k := complex128(1)
	d := r3.Vec{Z: 2}
	pt := r3.Vec{X: 0.5, Z: 8} // |pt - d| > |d|

	wx, wy, wz, err := field.SphericalVectorWaveFunction(pt, k, multipole.Outgoing, multipole.TM, 1, 0)
	require.NoError(t, err)

	var gx, gy, gz complex128
	rel := r3.Sub(pt, d)
	for tau2 := multipole.TE; tau2 <= multipole.TM; tau2++ {
		for l2 := 1; l2 <= reExpand; l2++ {
			for m2 := -l2; m2 <= l2; m2++ {
				a := TranslationCoefficientOutToOut(multipole.TM, 1, 0, tau2, l2, m2, k, d)
				if a == 0 {
					continue
				}
				px, py, pz, err := field.SphericalVectorWaveFunction(rel, k, multipole.Outgoing, tau2, l2, m2)
				require.NoError(t, err)
				gx += a * px
				gy += a * py
				gz += a * pz
			}
		}
	}
	assert.Less(t, relErr(gx, gy, gz, wx, wy, wz), 5e-3)
}

func TestSweToPweRoundTripDisplaced(t *testing.T) {
	// Decompose an outgoing expansion into plane waves and back-convert to a
	// regular expansion about a displaced point. The result must agree with
	// the translation operator applied to the source coefficients.
	const lMax, mMax = 1, 1
	k := complex128(1)
	shift := r3.Vec{Z: 2}

	src := field.NewSphericalWaveExpansion(k, lMax, mMax, multipole.Outgoing, r3.Vec{}, field.UnboundedInterval())
	src.SetCoefficient(multipole.TE, 1, 0, 1)
	src.SetCoefficient(multipole.TE, 1, 1, 0.5-0.2i)
	src.SetCoefficient(multipole.TM, 1, -1, -0.3+0.7i)

	kParallel := field.ContourKParallel(k, 5, 500, 0.05)
	na := 60
	angles := make([]float64, na+1)
	for i := range angles {
		angles[i] = 2 * math.Pi * float64(i) / float64(na)
	}

	up, _, err := SweToPwe(src, kParallel, angles, r3.Vec{}, field.UnboundedInterval())
	require.NoError(t, err)

	got, err := PweToSwe(up, lMax, mMax, shift)
	require.NoError(t, err)

	want := field.NewSphericalWaveExpansion(k, lMax, mMax, multipole.Regular, shift, field.UnboundedInterval())
	tables := NewTranslationTables(k, shift, 2*lMax, multipole.Regular)
	for tau2 := multipole.TE; tau2 <= multipole.TM; tau2++ {
		for m2 := -mMax; m2 <= mMax; m2++ {
			var sum complex128
			for tau1 := multipole.TE; tau1 <= multipole.TM; tau1++ {
				for m1 := -mMax; m1 <= mMax; m1++ {
					sum += TranslationCoefficientFromTables(tau1, 1, m1, tau2, 1, m2, tables) *
						src.Coefficient(tau1, 1, m1)
				}
			}
			want.SetCoefficient(tau2, 1, m2, sum)
		}
	}

	var num, den float64
	for n := range got.Coefficients {
		num += cmplx.Abs(got.Coefficients[n] - want.Coefficients[n])
		den += cmplx.Abs(want.Coefficients[n])
	}
	assert.Less(t, num/den, 5e-3)
}

func TestPweToSwePlaneWave(t *testing.T) {
	// A single normally incident plane wave expanded in regular spherical
	// waves must reproduce the plane wave field near the expansion center.
	const lMax = 4
	k := complex128(1)
	pwe := field.NewPlaneWaveExpansion(k, []complex128{0}, []float64{0}, field.Up, r3.Vec{}, field.UnboundedInterval())
	pwe.Coefficients[multipole.TE].Set(0, 0, 1)

	swe, err := PweToSwe(pwe, lMax, lMax, r3.Vec{})
	require.NoError(t, err)

	pt := r3.Vec{X: 0.3, Y: -0.2, Z: 0.4}
	ex, ey, ez, err := swe.ElectricField([]r3.Vec{pt})
	require.NoError(t, err)

	wave := cmplx.Exp(complex(0, pt.Z))
	assert.Less(t, relErr(ex[0], ey[0], ez[0], 0, wave, 0), 1e-3)
}

func TestPweToSweValidity(t *testing.T) {
	pwe := field.NewPlaneWaveExpansion(1, []complex128{0}, []float64{0}, field.Up, r3.Vec{}, field.Interval{Lower: 0, Upper: 1})
	_, err := PweToSwe(pwe, 1, 1, r3.Vec{Z: 5})
	assert.ErrorIs(t, err, field.ErrDomainValidity)
}

func TestSweToPweRequiresOutgoing(t *testing.T) {
	swe := field.NewSphericalWaveExpansion(1, 1, 1, multipole.Regular, r3.Vec{}, field.UnboundedInterval())
	_, _, err := SweToPwe(swe, []complex128{0}, []float64{0}, r3.Vec{}, field.UnboundedInterval())
	assert.ErrorIs(t, err, field.ErrInvalidKind)
}

func TestTranslationCoefficientSelectionRule(t *testing.T) {
	// The azimuthal order difference enters only through the phase, and the
	// coefficient vanishes when the Wigner selection rules forbid all
	// summation degrees.
	k := complex128(1.5)
	d := r3.Vec{Z: 3}
	// Axial shift: the Legendre table is evaluated on the pole, so only
	// m1 == m2 contributes.
	c := TranslationCoefficient(multipole.TE, 1, 1, multipole.TE, 1, -1, k, d)
	assert.InDelta(t, 0, cmplx.Abs(c), 1e-12)
	c = TranslationCoefficient(multipole.TE, 1, 1, multipole.TE, 1, 1, k, d)
	assert.Greater(t, cmplx.Abs(c), 0.0)
}
