package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/iyisakuma/stencil2d-go/internal/config"
	"github.com/iyisakuma/stencil2d-go/internal/monitoring"
	"github.com/iyisakuma/stencil2d-go/internal/results"
	"github.com/iyisakuma/stencil2d-go/internal/run"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "sweep definition (.json)")
	outPath := flag.String("out", "", "write the CSV here instead of stdout")
	raw := flag.Bool("raw", false, "write one row per run instead of the per-configuration summary")
	database := flag.String("database", "", "SQLite file for the runs; overrides the config")
	flag.Parse()

	cfg, err := config.LoadSweepConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *database != "" {
		cfg.Database = database
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = writeOutput(*outPath, os.Stdout, func(w io.Writer) error {
		return sweep(ctx, cfg, w, *raw)
	})
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// writeOutput runs write against the file at path, or against stdout when
// path is empty. The file is closed before returning and a failed close is
// reported.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", path, cerr))
		}
	}()
	return write(f)
}

// sweep runs every case, precision and backend of cfg the configured
// number of times and writes the collected timings as CSV. An interrupt
// stops the sweep between runs and still writes what was collected.
func sweep(ctx context.Context, cfg *config.SweepConfig, w io.Writer, raw bool) error {
	var sinks []results.Sink
	if path := cfg.GetDatabase(); path != "" {
		store, err := results.OpenStore(path)
		if err != nil {
			return err
		}
		defer store.Close()
		sinks = append(sinks, store)
	}
	col := results.NewCollector(sinks...)

	runErr := runAll(ctx, cfg, col)

	var err error
	if raw {
		err = col.WriteCSV(w)
	} else {
		err = results.WriteSummaryCSV(w, col.Summaries())
	}
	return errors.Join(runErr, err)
}

func runAll(ctx context.Context, cfg *config.SweepConfig, col *results.Collector) error {
	for _, c := range cfg.GetCases() {
		for _, ps := range cfg.GetPrecisions() {
			p, err := run.ParsePrecision(ps)
			if err != nil {
				return err
			}
			for _, backend := range cfg.GetBackends() {
				workers := cfg.GetWorkers()
				if backend == config.BackendSerial {
					workers = 1
				}
				rc := run.Config{
					Nx: c.Nx, Ny: c.Ny, Nz: c.Nz,
					NumIter:   c.NumIter,
					NumHalo:   cfg.GetNumHalo(),
					Precision: p,
				}
				opts := run.Options{
					ResultDir: cfg.GetResultDir(),
					WarmUp:    cfg.GetWarmUp(),
					Workers:   workers,
					Recorder:  col,
					Backend:   backend,
				}
				for i := 0; i < cfg.GetRepeats(); i++ {
					monitoring.Logf("sweep: %s nx=%d ny=%d nz=%d iter=%d p%s run %d/%d",
						backend, c.Nx, c.Ny, c.Nz, c.NumIter, ps, i+1, cfg.GetRepeats())
					if _, err := run.Calculations(ctx, rc, opts); err != nil {
						return fmt.Errorf("case nx=%d ny=%d nz=%d p%s %s: %w", c.Nx, c.Ny, c.Nz, ps, backend, err)
					}
				}
			}
		}
	}
	return nil
}
