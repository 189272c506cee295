package consts

const (
	GmresTolerance     = 1e-5 // Relative residual stopping threshold
	GmresRestart       = 30   // Krylov subspace dimension per cycle
	GmresMaxIterations = 1000 // Total iteration cap across restarts
	LookupResolution   = 5.0  // Radial lookup grid spacing (length units)
)
