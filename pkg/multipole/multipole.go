package multipole

import "fmt"

// Polarization selects the spherical polarization of a partial wave.
type Polarization int

const (
	TE Polarization = 0 // spherical transverse electric
	TM Polarization = 1 // spherical transverse magnetic
)

func (p Polarization) Valid() bool {
	return p == TE || p == TM
}

func (p Polarization) String() string {
	switch p {
	case TE:
		return "TE"
	case TM:
		return "TM"
	}
	return fmt.Sprintf("Polarization(%d)", int(p))
}

// Kind distinguishes waves that are finite at the origin from radiating ones.
type Kind int

const (
	Regular Kind = iota
	Outgoing
)

func (k Kind) Valid() bool {
	return k == Regular || k == Outgoing
}

func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Outgoing:
		return "outgoing"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// FlatIndex maps a multipole index (tau, l, m) to its position in the flat
// coefficient vector of an expansion with cutoffs (lMax, mMax). The nesting
// order is tau, then l, then m. Violated preconditions are programming
// errors and panic.
func FlatIndex(tau Polarization, l, m, lMax, mMax int) int {
	if !tau.Valid() {
		panic(fmt.Sprintf("multipole: invalid polarization %d", int(tau)))
	}
	if mMax > lMax {
		panic(fmt.Sprintf("multipole: mMax %d exceeds lMax %d", mMax, lMax))
	}
	if l < 1 || l > lMax {
		panic(fmt.Sprintf("multipole: degree %d outside 1..%d", l, lMax))
	}
	if abs(m) > min(l, mMax) {
		panic(fmt.Sprintf("multipole: order %d outside bound %d for degree %d", m, min(l, mMax), l))
	}

	// Number of (l, m) combinations per polarization block:
	// sum_{l=1}^{lMax} (2 min(l, mMax) + 1).
	tauBlock := mMax*(mMax+2) + (lMax-mMax)*(2*mMax+1)
	n := int(tau) * tauBlock
	if l-1 <= mMax {
		n += (l - 1) * (l + 1)
	} else {
		n += mMax*(mMax+2) + (l-1-mMax)*(2*mMax+1)
	}
	return n + m + min(l, mMax)
}

// BlockSize is the number of coefficients in a single expansion with the
// given cutoffs, which is the largest flat index plus one.
func BlockSize(lMax, mMax int) int {
	return FlatIndex(TM, lMax, mMax, lMax, mMax) + 1
}

// MultiIndex inverts FlatIndex: it recovers (tau, l, m) from a flat position.
func MultiIndex(n, lMax, mMax int) (Polarization, int, int) {
	if n < 0 || n >= BlockSize(lMax, mMax) {
		panic(fmt.Sprintf("multipole: flat index %d outside block of cutoffs (%d, %d)", n, lMax, mMax))
	}
	idx := 0
	for tau := TE; tau <= TM; tau++ {
		for l := 1; l <= lMax; l++ {
			mm := min(l, mMax)
			for m := -mm; m <= mm; m++ {
				if idx == n {
					return tau, l, m
				}
				idx++
			}
		}
	}
	panic("multipole: unreachable")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
