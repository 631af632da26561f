package run

import (
	"context"
	"fmt"
	"time"

	"github.com/iyisakuma/stencil2d-go/internal/diffusion"
	"github.com/iyisakuma/stencil2d-go/internal/monitoring"
	"github.com/iyisakuma/stencil2d-go/internal/npy"
	"github.com/iyisakuma/stencil2d-go/internal/results"
)

// Options controls what Calculations returns and where it writes.
type Options struct {
	ResultDir   string // save the final field here when non-empty
	ReturnField bool
	ReturnTime  bool
	WarmUp      bool // run one untimed step on copies first

	// Workers is the pool size; 1 runs serially and 0 selects the pool
	// default.
	Workers int

	Recorder results.Recorder
	Backend  string // label passed to the recorder
}

// Outcome holds what Options asked for. Exactly one of Field32 and Field64
// is set when ReturnField is true.
type Outcome struct {
	Elapsed time.Duration
	Field32 *diffusion.Field[float32]
	Field64 *diffusion.Field[float64]
	Path    string
	Mass    float64
}

// Calculations validates cfg, evolves the hot cube for cfg.NumIter steps
// and reports the results selected by opts. The run cannot be interrupted
// once it has started; ctx is only consulted beforehand.
func Calculations(ctx context.Context, cfg Config, opts Options) (*Outcome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch cfg.Precision {
	case P32:
		return calculate[float32](cfg, opts)
	default:
		return calculate[float64](cfg, opts)
	}
}

func calculate[T diffusion.Float](cfg Config, opts Options) (*Outcome, error) {
	g := diffusion.Grid{Nx: cfg.Nx, Ny: cfg.Ny, Nz: cfg.Nz, NumHalo: cfg.NumHalo}
	pool := diffusion.NewPool(opts.Workers)
	alpha := T(cfg.Coefficient())

	in, err := diffusion.NewField[T](g)
	if err != nil {
		return nil, fmt.Errorf("allocate in_field: %w", err)
	}
	diffusion.HotCube(in)
	out, err := in.Clone()
	if err != nil {
		return nil, fmt.Errorf("allocate out_field: %w", err)
	}

	if opts.WarmUp {
		if err := warmUp(in, out, alpha, pool); err != nil {
			return nil, err
		}
	}

	d, err := diffusion.NewDiffusion(in, out, alpha, pool)
	if err != nil {
		return nil, err
	}
	tic := time.Now()
	field, err := d.Apply(cfg.NumIter)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(tic)
	monitoring.Logf("Elapsed time for work = %v s", elapsed.Seconds())

	res := &Outcome{Mass: diffusion.Mass(field)}
	if opts.ReturnTime {
		res.Elapsed = elapsed
	}
	if opts.ReturnField {
		switch f := any(field).(type) {
		case *diffusion.Field[float32]:
			res.Field32 = f
		case *diffusion.Field[float64]:
			res.Field64 = f
		}
	}

	if opts.ResultDir != "" {
		params := npy.RunParams{
			Nx: cfg.Nx, Ny: cfg.Ny, Nz: cfg.Nz,
			NumIter: cfg.NumIter, NumHalo: cfg.NumHalo,
			Precision: int(cfg.Precision),
		}
		path, err := npy.Save(opts.ResultDir, time.Now(), params, field)
		if err != nil {
			return nil, err
		}
		res.Path = path
	}

	if opts.Recorder != nil {
		rec := results.Record{
			Backend:   opts.Backend,
			Nx:        cfg.Nx,
			Ny:        cfg.Ny,
			Nz:        cfg.Nz,
			NumIter:   cfg.NumIter,
			NumHalo:   cfg.NumHalo,
			Precision: int(cfg.Precision),
			Workers:   pool.Workers(),
			Elapsed:   elapsed,
			Mass:      res.Mass,
			Path:      res.Path,
		}
		if err := opts.Recorder.Record(rec); err != nil {
			return res, fmt.Errorf("record run: %w", err)
		}
	}
	return res, nil
}

// warmUp runs a single step on copies so the timed run starts from the
// untouched initial condition with the buffers already paged in.
func warmUp[T diffusion.Float](in, out *diffusion.Field[T], alpha T, pool *diffusion.Pool) error {
	a, err := in.Clone()
	if err != nil {
		return fmt.Errorf("allocate warm-up field: %w", err)
	}
	b, err := out.Clone()
	if err != nil {
		return fmt.Errorf("allocate warm-up field: %w", err)
	}
	_, err = diffusion.ApplyDiffusion(a, b, alpha, 1, pool)
	return err
}

// Flops is the floating point operation count of a run: 5 per cell for
// each Laplacian pass and 2 for the update.
func Flops(cfg Config) float64 {
	return 12 * float64(cfg.Nx) * float64(cfg.Ny) * float64(cfg.Nz) * float64(cfg.NumIter)
}
