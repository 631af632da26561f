// Package diffusion implements the explicit stencil diffusion kernel: the
// periodic halo exchange, the 5-point Laplacian evaluated per z-layer, and
// the double-buffered driver that advances a field by repeated
// Laplacian-of-Laplacian updates.
package diffusion

import (
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Float is the element type of a field. The kernel is instantiated once
// per precision so the hot loops never dispatch on type.
type Float interface {
	constraints.Float
}

// Grid describes the logical extents of a field and the width of the
// ghost margin added on both sides of the x and y axes.
type Grid struct {
	Nx, Ny, Nz int
	NumHalo    int
}

// Width is the stored extent of the x axis.
func (g Grid) Width() int { return g.Nx + 2*g.NumHalo }

// Height is the stored extent of the y axis.
func (g Grid) Height() int { return g.Ny + 2*g.NumHalo }

// Len is the number of stored cells, halo included.
func (g Grid) Len() int { return g.Nz * g.Height() * g.Width() }

// Cells is the number of interior cells.
func (g Grid) Cells() int { return g.Nz * g.Ny * g.Nx }

// Validate checks that the halo fits: the periodic copy reads an interior
// slab as wide as the halo, so the halo may not be wider than the interior.
func (g Grid) Validate() error {
	switch {
	case g.Nx <= 0 || g.Ny <= 0 || g.Nz <= 0:
		return fmt.Errorf("%w: extents %dx%dx%d must be positive", ErrInvalidGrid, g.Nx, g.Ny, g.Nz)
	case g.NumHalo < 1:
		return fmt.Errorf("%w: num_halo %d must be at least 1", ErrInvalidGrid, g.NumHalo)
	case g.NumHalo > g.Nx:
		return fmt.Errorf("%w: num_halo %d exceeds nx %d", ErrInvalidGrid, g.NumHalo, g.Nx)
	case g.NumHalo > g.Ny:
		return fmt.Errorf("%w: num_halo %d exceeds ny %d", ErrInvalidGrid, g.NumHalo, g.Ny)
	}
	return nil
}

// Field is a dense (nz, ny+2h, nx+2h) array stored row-major with x
// varying fastest. The outer h cells of the last two axes are ghost cells
// holding a periodic copy of the opposite interior edge.
type Field[T Float] struct {
	grid Grid
	data []T
}

// NewField allocates a zeroed field for g.
func NewField[T Float](g Grid) (f *Field[T], err error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	var zero T
	size := int(unsafe.Sizeof(zero))
	w, h := g.Width(), g.Height()
	if g.Nz > math.MaxInt/size/h/w {
		return nil, fmt.Errorf("%w: %dx%dx%d cells overflow the address space", ErrAllocation, g.Nz, h, w)
	}

	defer func() {
		if r := recover(); r != nil {
			f = nil
			err = fmt.Errorf("%w: %d cells: %v", ErrAllocation, g.Len(), r)
		}
	}()
	return &Field[T]{grid: g, data: make([]T, g.Len())}, nil
}

// MustField is NewField for callers with a grid known to be valid.
func MustField[T Float](g Grid) *Field[T] {
	f, err := NewField[T](g)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Field[T]) Grid() Grid { return f.grid }

// Data returns the backing slice. Writes through it mutate the field.
func (f *Field[T]) Data() []T { return f.data }

// Index returns the flat offset of stored cell (k, j, i); j and i count
// from the outer edge of the halo.
func (f *Field[T]) Index(k, j, i int) int {
	return (k*f.grid.Height()+j)*f.grid.Width() + i
}

func (f *Field[T]) At(k, j, i int) T { return f.data[f.Index(k, j, i)] }

func (f *Field[T]) Set(k, j, i int, v T) { f.data[f.Index(k, j, i)] = v }

// Row returns the stored row (k, j), halo columns included.
func (f *Field[T]) Row(k, j int) []T {
	w := f.grid.Width()
	off := (k*f.grid.Height() + j) * w
	return f.data[off : off+w : off+w]
}

// Fill sets every stored cell to v.
func (f *Field[T]) Fill(v T) {
	for i := range f.data {
		f.data[i] = v
	}
}

// Clone returns a deep copy of f.
func (f *Field[T]) Clone() (*Field[T], error) {
	c, err := NewField[T](f.grid)
	if err != nil {
		return nil, err
	}
	copy(c.data, f.data)
	return c, nil
}

// CopyFrom overwrites f with the contents of src.
func (f *Field[T]) CopyFrom(src *Field[T]) error {
	if f.grid != src.grid {
		return fmt.Errorf("%w: grid %+v vs %+v", ErrFieldMismatch, f.grid, src.grid)
	}
	copy(f.data, src.data)
	return nil
}

// Layer returns a copy of the interior of z-layer k indexed [j][i] from the
// first interior cell.
func (f *Field[T]) Layer(k int) [][]T {
	g := f.grid
	out := make([][]T, g.Ny)
	for j := range out {
		row := f.Row(k, g.NumHalo+j)
		out[j] = append([]T(nil), row[g.NumHalo:g.NumHalo+g.Nx]...)
	}
	return out
}

// Interior64 returns the interior widened to float64 in (k, j, i) order.
func (f *Field[T]) Interior64() []float64 {
	g := f.grid
	out := make([]float64, 0, g.Cells())
	for k := 0; k < g.Nz; k++ {
		for j := g.NumHalo; j < g.NumHalo+g.Ny; j++ {
			for _, v := range f.Row(k, j)[g.NumHalo : g.NumHalo+g.Nx] {
				out = append(out, float64(v))
			}
		}
	}
	return out
}

func sameStorage[T Float](a, b *Field[T]) bool {
	return a == b || (len(a.data) > 0 && len(b.data) > 0 && &a.data[0] == &b.data[0])
}
