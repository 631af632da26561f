// Package run is the entry point into the stencil core: it validates a run
// configuration, prepares the hot cube, times the diffusion, and optionally
// persists the field and reports the run to a results recorder.
package run

import (
	"errors"
	"fmt"
	"math"
)

// DefaultAlpha is the diffusion coefficient used by the benchmark.
const DefaultAlpha = 1.0 / 32.0

// Limits accepted by Validate.
const (
	MaxNx      = 1024 * 1024
	MaxNy      = 1024 * 1024
	MaxNz      = 1024
	MaxNumIter = 1024 * 1024
	MinNumHalo = 2
	MaxNumHalo = 256
)

// Precision selects the element type of the fields.
type Precision int

const (
	P32 Precision = 32
	P64 Precision = 64
)

// ParsePrecision accepts "32" and "64".
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "32":
		return P32, nil
	case "64":
		return P64, nil
	}
	return 0, &ValidationError{Param: "precision", Value: s, Reason: `must be "32" or "64"`}
}

func (p Precision) String() string { return fmt.Sprintf("%d", int(p)) }

// ErrInvalidInput is matched by every *ValidationError.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError names the parameter that failed validation.
type ValidationError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Config is the immutable description of one run. A nil Alpha selects
// DefaultAlpha; any other value, zero included, is used as given.
type Config struct {
	Nx, Ny, Nz int
	NumIter    int
	NumHalo    int
	Precision  Precision
	Alpha      *float64
}

// Coefficient returns the diffusion coefficient the run will use.
func (c Config) Coefficient() float64 {
	if c.Alpha == nil {
		return DefaultAlpha
	}
	return *c.Alpha
}

// Validate checks every precondition of a run before anything is
// allocated.
func (c Config) Validate() error {
	switch {
	case c.Nx <= 0 || c.Nx > MaxNx:
		return &ValidationError{Param: "nx", Value: c.Nx, Reason: fmt.Sprintf("must be in (0, %d]", MaxNx)}
	case c.Ny <= 0 || c.Ny > MaxNy:
		return &ValidationError{Param: "ny", Value: c.Ny, Reason: fmt.Sprintf("must be in (0, %d]", MaxNy)}
	case c.Nz <= 0 || c.Nz > MaxNz:
		return &ValidationError{Param: "nz", Value: c.Nz, Reason: fmt.Sprintf("must be in (0, %d]", MaxNz)}
	case c.NumIter <= 0 || c.NumIter > MaxNumIter:
		return &ValidationError{Param: "num_iter", Value: c.NumIter, Reason: fmt.Sprintf("must be in (0, %d]", MaxNumIter)}
	case c.NumHalo < MinNumHalo || c.NumHalo > MaxNumHalo:
		return &ValidationError{Param: "num_halo", Value: c.NumHalo, Reason: fmt.Sprintf("must be in [%d, %d]", MinNumHalo, MaxNumHalo)}
	case c.NumHalo > c.Nx:
		return &ValidationError{Param: "num_halo", Value: c.NumHalo, Reason: fmt.Sprintf("exceeds nx %d", c.Nx)}
	case c.NumHalo > c.Ny:
		return &ValidationError{Param: "num_halo", Value: c.NumHalo, Reason: fmt.Sprintf("exceeds ny %d", c.Ny)}
	case c.Precision != P32 && c.Precision != P64:
		return &ValidationError{Param: "precision", Value: int(c.Precision), Reason: "must be 32 or 64"}
	case math.IsNaN(c.Coefficient()) || math.IsInf(c.Coefficient(), 0):
		return &ValidationError{Param: "alpha", Value: c.Coefficient(), Reason: "must be finite"}
	}
	return nil
}
