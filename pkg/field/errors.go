package field

import "errors"

var (
	// ErrInconsistentOperands is returned when two expansions with mismatched
	// wavenumber, cutoffs, kind, direction, grids or reference points are added.
	ErrInconsistentOperands = errors.New("inconsistent expansion operands")

	// ErrDomainValidity is returned when an operation requires a point inside
	// an expansion's declared z-validity interval and the point lies outside.
	ErrDomainValidity = errors.New("outside expansion validity domain")

	// ErrInvalidPolarization flags a polarization value outside {TE, TM}.
	ErrInvalidPolarization = errors.New("invalid polarization")

	// ErrInvalidKind flags a wave kind outside {regular, outgoing} or a kind
	// not admitted by the requested operation.
	ErrInvalidKind = errors.New("invalid wave kind")

	// ErrInvalidDirection flags a plane wave direction outside {up, down}.
	ErrInvalidDirection = errors.New("invalid propagation direction")
)
