package util

// Trapz integrates the samples y along the (possibly complex) node path x by
// the trapezoidal rule. Complex nodes realize contour integration around
// branch points of the in-plane wavenumber axis.
func Trapz(x, y []complex128) complex128 {
	var s complex128
	for i := 1; i < len(x); i++ {
		s += (x[i] - x[i-1]) * (y[i] + y[i-1]) / 2
	}
	return s
}

// TrapzReal is Trapz for real nodes, as used along the azimuthal angle axis.
func TrapzReal(x []float64, y []complex128) complex128 {
	var s complex128
	for i := 1; i < len(x); i++ {
		s += complex((x[i]-x[i-1])/2, 0) * (y[i] + y[i-1])
	}
	return s
}
