package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// Collector accumulates records in memory and forwards each one to its
// sinks as soon as it is recorded. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	records []Record
	sinks   []Sink
}

func NewCollector(sinks ...Sink) *Collector {
	return &Collector{sinks: sinks}
}

// Record stores r, filling in an ID and creation time when missing. The
// record is kept even if a sink fails; the first sink error is returned.
func (c *Collector) Record(r Record) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	for _, s := range c.sinks {
		if err := s.Insert(r); err != nil {
			return fmt.Errorf("results: sink: %w", err)
		}
	}
	return nil
}

// Records returns a copy of everything recorded so far, in arrival order.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record(nil), c.records...)
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Summary aggregates the repeats of one configuration.
type Summary struct {
	Key
	Runs        int
	MeanSeconds float64
	StdSeconds  float64
	MinSeconds  float64
	MeanMass    float64
}

// Summaries groups records by configuration in order of first appearance.
func (c *Collector) Summaries() []Summary {
	records := c.Records()

	var order []Key
	groups := make(map[Key][]Record)
	for _, r := range records {
		k := r.Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	out := make([]Summary, 0, len(order))
	for _, k := range order {
		rs := groups[k]
		secs := make([]float64, len(rs))
		mass := make([]float64, len(rs))
		minSecs := math.Inf(1)
		for i, r := range rs {
			secs[i] = r.Elapsed.Seconds()
			mass[i] = r.Mass
			minSecs = math.Min(minSecs, secs[i])
		}
		mean, std := stat.MeanStdDev(secs, nil)
		if len(rs) < 2 {
			std = 0
		}
		out = append(out, Summary{
			Key:         k,
			Runs:        len(rs),
			MeanSeconds: mean,
			StdSeconds:  std,
			MinSeconds:  minSecs,
			MeanMass:    stat.Mean(mass, nil),
		})
	}
	return out
}

var rawHeader = []string{
	"run_id", "backend", "nx", "ny", "nz", "num_iter", "num_halo",
	"precision", "workers", "elapsed_s", "mass", "path", "created_at",
}

// WriteCSV writes one row per record.
func (c *Collector) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rawHeader); err != nil {
		return err
	}
	for _, r := range c.Records() {
		row := append(keyFields(r.Key()),
			fmt.Sprintf("%.9f", r.Elapsed.Seconds()),
			strconv.FormatFloat(r.Mass, 'g', 17, 64),
			r.Path,
			r.CreatedAt.Format(time.RFC3339Nano),
		)
		if err := cw.Write(append([]string{r.ID.String()}, row...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var summaryHeader = []string{
	"backend", "nx", "ny", "nz", "num_iter", "num_halo", "precision", "workers",
	"runs", "mean_s", "stddev_s", "min_s", "mean_mass",
}

// WriteSummaryCSV writes one row per configuration.
func WriteSummaryCSV(w io.Writer, summaries []Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		row := append(keyFields(s.Key),
			strconv.Itoa(s.Runs),
			fmt.Sprintf("%.9f", s.MeanSeconds),
			fmt.Sprintf("%.9f", s.StdSeconds),
			fmt.Sprintf("%.9f", s.MinSeconds),
			strconv.FormatFloat(s.MeanMass, 'g', 17, 64),
		)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func keyFields(k Key) []string {
	return []string{
		k.Backend,
		strconv.Itoa(k.Nx),
		strconv.Itoa(k.Ny),
		strconv.Itoa(k.Nz),
		strconv.Itoa(k.NumIter),
		strconv.Itoa(k.NumHalo),
		strconv.Itoa(k.Precision),
		strconv.Itoa(k.Workers),
	}
}
