// Package results collects per-run benchmark records. A Collector is
// handed to every run of a parameter sweep by the caller; the stencil core
// itself keeps no state between runs.
package results

import (
	"time"

	"github.com/google/uuid"
)

// Record is the outcome of one call into the stencil core.
type Record struct {
	ID        uuid.UUID
	Backend   string
	Nx        int
	Ny        int
	Nz        int
	NumIter   int
	NumHalo   int
	Precision int // 32 or 64
	Workers   int
	Elapsed   time.Duration
	Mass      float64
	Path      string // result file, empty when the field was not saved
	CreatedAt time.Time
}

// Key identifies the configuration a record was measured for.
type Key struct {
	Backend   string
	Nx        int
	Ny        int
	Nz        int
	NumIter   int
	NumHalo   int
	Precision int
	Workers   int
}

func (r Record) Key() Key {
	return Key{
		Backend:   r.Backend,
		Nx:        r.Nx,
		Ny:        r.Ny,
		Nz:        r.Nz,
		NumIter:   r.NumIter,
		NumHalo:   r.NumHalo,
		Precision: r.Precision,
		Workers:   r.Workers,
	}
}

// Recorder accepts finished runs.
type Recorder interface {
	Record(Record) error
}

// Sink persists records as they arrive.
type Sink interface {
	Insert(Record) error
}
