package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/iyisakuma/stencil2d-go/STENCIL/params"
	"github.com/iyisakuma/stencil2d-go/common"
	"github.com/iyisakuma/stencil2d-go/internal/diffusion"
	"github.com/iyisakuma/stencil2d-go/internal/monitoring"
	"github.com/iyisakuma/stencil2d-go/internal/run"
)

const version = "1.0.0"

// class holds the problem size compiled in through the params build tags.
type class struct {
	name                string
	nx, ny, nz, numIter int
	numHalo             int
	empty               bool
}

func compiledClass() class {
	return class{
		name:    params.CLASS,
		nx:      params.NX,
		ny:      params.NY,
		nz:      params.NZ,
		numIter: params.NITER,
		numHalo: params.NHALO,
		empty:   params.EmptyTag,
	}
}

var errNoClass = errors.New("no problem class compiled in and no size given")

func main() {
	err := stencil(os.Args[1:], compiledClass(), os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errNoClass):
		fmt.Println("To make a stencil benchmark type ")
		fmt.Println("\t go build -o stencil -tags=<CLASS>")
		fmt.Println("where: <class> is \"S\", \"W\", \"A\" or \"B\"")
		fmt.Println("or pass -nx, -ny, -nz and -num_iter explicitly")
		os.Exit(2)
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func stencil(args []string, c class, stdout io.Writer) error {
	fs := flag.NewFlagSet("stencil", flag.ContinueOnError)
	nx := fs.Int("nx", c.nx, "number of gridpoints in x-direction")
	ny := fs.Int("ny", c.ny, "number of gridpoints in y-direction")
	nz := fs.Int("nz", c.nz, "number of gridpoints in z-direction")
	numIter := fs.Int("num_iter", c.numIter, "number of iterations")
	numHalo := fs.Int("num_halo", c.numHalo, "number of halo points")
	precision := fs.String("precision", "64", "floating point precision: 32 or 64")
	resultDir := fs.String("result_dir", "", "directory for the final field; empty skips saving")
	workers := fs.Int("workers", 0, "worker goroutines; 0 reads "+diffusion.WorkersEnv+" or uses all CPUs")
	warmUp := fs.Bool("warmup", true, "run one untimed iteration first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if c.empty && (*nx == 0 || *ny == 0 || *nz == 0 || *numIter == 0) {
		return errNoClass
	}

	p, err := run.ParsePrecision(*precision)
	if err != nil {
		return err
	}
	cfg := run.Config{
		Nx: *nx, Ny: *ny, Nz: *nz,
		NumIter:   *numIter,
		NumHalo:   *numHalo,
		Precision: p,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pool := diffusion.NewPool(*workers)
	fmt.Fprintf(stdout, "\n\n Stencil diffusion Benchmark\n")
	fmt.Fprintf(stdout, " Size: %4dx%4dx%4d  (class %s)\n", cfg.Nx, cfg.Ny, cfg.Nz, className(c))
	fmt.Fprintf(stdout, " Iterations: %d\n", cfg.NumIter)
	fmt.Fprintf(stdout, " Number of available goroutines: %d\n", pool.Workers())

	common.TimerClear(common.T_BENCH)
	common.TimerStart(common.T_BENCH)
	out, err := run.Calculations(context.Background(), cfg, run.Options{
		ResultDir:  *resultDir,
		ReturnTime: true,
		WarmUp:     *warmUp,
		Workers:    pool.Workers(),
	})
	common.TimerStop(common.T_BENCH)
	if err != nil {
		return err
	}
	monitoring.Logf("total wall time %.6f s", common.TimerRead(common.T_BENCH))
	if out.Path != "" {
		fmt.Fprintf(stdout, " Result written to %s\n", out.Path)
	}

	initial := float64(diffusion.HotCubeCells(diffusion.Grid{Nx: cfg.Nx, Ny: cfg.Ny, Nz: cfg.Nz, NumHalo: cfg.NumHalo}))
	seconds := out.Elapsed.Seconds()
	common.PrintResults(stdout, common.Report{
		Name:       "STENCIL",
		Class:      c.name,
		Nx:         cfg.Nx,
		Ny:         cfg.Ny,
		Nz:         cfg.Nz,
		NumHalo:    cfg.NumHalo,
		Iterations: cfg.NumIter,
		Precision:  p.String(),
		Workers:    pool.Workers(),
		Seconds:    seconds,
		Mops:       common.Mops(run.Flops(cfg), seconds),
		Verified:   verify(out.Mass, initial, p, cfg.NumIter),
		Version:    version,
	})
	return nil
}

func className(c class) string {
	if c.name == "" {
		return "U"
	}
	return c.name
}

// verify checks that the total heat of the hot cube survived the run. The
// allowed relative drift grows with the iteration count.
func verify(mass, initial float64, p run.Precision, numIter int) bool {
	if initial == 0 {
		return mass == 0
	}
	eps := 1e-6
	if p == run.P32 {
		eps = 1e-3
	}
	tol := eps * math.Max(1, float64(numIter)/100)
	return math.Abs(mass-initial)/initial <= tol
}
