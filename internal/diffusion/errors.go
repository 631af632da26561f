package diffusion

import "errors"

var (
	// ErrInvalidGrid reports grid extents or a halo width the field layout
	// cannot represent.
	ErrInvalidGrid = errors.New("diffusion: invalid grid")

	// ErrFieldMismatch reports two fields that cannot be combined, either
	// because their grids differ or because they share a buffer.
	ErrFieldMismatch = errors.New("diffusion: field mismatch")

	// ErrInvalidArgument reports an out of range operator argument.
	ErrInvalidArgument = errors.New("diffusion: invalid argument")

	// ErrAllocation reports that the storage for a field could not be
	// obtained.
	ErrAllocation = errors.New("diffusion: allocation failed")
)
