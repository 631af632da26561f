package diffusion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// StabilityLimit is the largest alpha for which the biharmonic update on a
// unit-spaced grid does not amplify any mode: the squared 5-point Laplacian
// has spectral radius 64, so the amplification factor 1-64*alpha stays in
// [-1, 1] up to 2/64. The driver does not enforce it.
func StabilityLimit() float64 { return 2.0 / 64.0 }

// Mass returns the sum of the interior of f.
func Mass[T Float](f *Field[T]) float64 {
	g := f.grid
	h := g.NumHalo
	buf := make([]float64, g.Nx)
	total := 0.0
	for k := 0; k < g.Nz; k++ {
		for j := h; j < h+g.Ny; j++ {
			widen(buf, f.Row(k, j)[h:h+g.Nx])
			total += floats.Sum(buf)
		}
	}
	return total
}

// MaxAbsDiff returns the largest absolute difference between the interiors
// of a and b, which may differ in precision but not in grid.
func MaxAbsDiff[A, B Float](a *Field[A], b *Field[B]) (float64, error) {
	if a.grid != b.grid {
		return 0, fmt.Errorf("%w: grid %+v vs %+v", ErrFieldMismatch, a.grid, b.grid)
	}
	g := a.grid
	h := g.NumHalo
	x := make([]float64, g.Nx)
	y := make([]float64, g.Nx)
	worst := 0.0
	for k := 0; k < g.Nz; k++ {
		for j := h; j < h+g.Ny; j++ {
			widen(x, a.Row(k, j)[h:h+g.Nx])
			widen(y, b.Row(k, j)[h:h+g.Nx])
			worst = math.Max(worst, floats.Distance(x, y, math.Inf(1)))
		}
	}
	return worst, nil
}

func widen[T Float](dst []float64, src []T) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}
