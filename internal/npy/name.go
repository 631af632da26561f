package npy

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/iyisakuma/stencil2d-go/internal/diffusion"
)

// TimeLayout is the timestamp prefix of a result file name.
const TimeLayout = "20060102T150405"

// RunParams are the run parameters encoded in a result file name.
type RunParams struct {
	Nx, Ny, Nz int
	NumIter    int
	NumHalo    int
	Precision  int // 32 or 64
}

// ResultName returns "<timestamp>-nx.._ny.._nz.._iter.._halo.._p...npy".
func ResultName(t time.Time, p RunParams) string {
	return fmt.Sprintf("%s-nx%d_ny%d_nz%d_iter%d_halo%d_p%d.npy",
		t.Format(TimeLayout), p.Nx, p.Ny, p.Nz, p.NumIter, p.NumHalo, p.Precision)
}

var nameRe = regexp.MustCompile(`^(\d{8}T\d{6})-nx(\d+)_ny(\d+)_nz(\d+)_iter(\d+)_halo(\d+)_p(32|64)\.npy$`)

// ParseResultName recovers the timestamp and parameters from a name built
// by ResultName. Directory components are ignored.
func ParseResultName(name string) (time.Time, RunParams, error) {
	m := nameRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return time.Time{}, RunParams{}, fmt.Errorf("npy: %q is not a result file name", name)
	}
	ts, err := time.ParseInLocation(TimeLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, RunParams{}, fmt.Errorf("npy: timestamp in %q: %w", name, err)
	}
	v := make([]int, 0, 6)
	for _, s := range m[2:] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, RunParams{}, fmt.Errorf("npy: %q: %w", name, err)
		}
		v = append(v, n)
	}
	return ts, RunParams{Nx: v[0], Ny: v[1], Nz: v[2], NumIter: v[3], NumHalo: v[4], Precision: v[5]}, nil
}

// Save writes f to dir under ResultName and returns the path. The directory
// is created when missing.
func Save[T diffusion.Float](dir string, t time.Time, p RunParams, f *diffusion.Field[T]) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("npy: create result dir: %w", err)
	}
	path = filepath.Join(dir, ResultName(t, p))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("npy: create result file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("npy: close result file: %w", cerr)
		}
	}()
	if err := WriteField(file, f); err != nil {
		return "", err
	}
	return path, nil
}
