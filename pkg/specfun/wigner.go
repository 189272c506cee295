package specfun

import (
	"math"
	"sync"
)

var (
	lnFactMu  sync.Mutex
	lnFactTab []float64
)

func lnFact(n int) float64 {
	lnFactMu.Lock()
	defer lnFactMu.Unlock()
	for len(lnFactTab) <= n {
		k := len(lnFactTab)
		if k == 0 {
			lnFactTab = append(lnFactTab, 0)
			continue
		}
		lnFactTab = append(lnFactTab, lnFactTab[k-1]+math.Log(float64(k)))
	}
	return lnFactTab[n]
}

// Wigner3j evaluates the Wigner 3-j symbol
//
//	( j1 j2 j3 )
//	( m1 m2 m3 )
//
// for integer arguments by direct numeric evaluation of the Racah closed form
// with logarithmic factorials. Selection-rule violations yield zero.
func Wigner3j(j1, j2, j3, m1, m2, m3 int) float64 {
	if m1+m2+m3 != 0 {
		return 0
	}
	if j3 < iabs(j1-j2) || j3 > j1+j2 {
		return 0
	}
	if iabs(m1) > j1 || iabs(m2) > j2 || iabs(m3) > j3 {
		return 0
	}

	logPre := 0.5 * (lnFact(j1+j2-j3) + lnFact(j1-j2+j3) + lnFact(-j1+j2+j3) - lnFact(j1+j2+j3+1) +
		lnFact(j1+m1) + lnFact(j1-m1) + lnFact(j2+m2) + lnFact(j2-m2) + lnFact(j3+m3) + lnFact(j3-m3))

	tMin := max(0, max(j2-j3-m1, j1-j3+m2))
	tMax := min(j1+j2-j3, min(j1-m1, j2+m2))

	sum := 0.0
	for t := tMin; t <= tMax; t++ {
		logDen := lnFact(t) + lnFact(j1+j2-j3-t) + lnFact(j1-m1-t) + lnFact(j2+m2-t) +
			lnFact(j3-j2+m1+t) + lnFact(j3-j1-m2+t)
		term := math.Exp(logPre - logDen)
		if t%2 != 0 {
			term = -term
		}
		sum += term
	}
	if iabs(j1-j2-m3)%2 != 0 {
		sum = -sum
	}
	return sum
}

func iabs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
