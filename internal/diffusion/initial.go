package diffusion

import "github.com/iyisakuma/stencil2d-go/common"

// HotCube zeroes f and sets the centred block covering the middle half of
// each logical axis to 1.
func HotCube[T Float](f *Field[T]) {
	g := f.grid
	h := g.NumHalo
	f.Fill(0)
	for k := g.Nz / 4; k < 3*g.Nz/4; k++ {
		for j := h + g.Ny/4; j < h+3*g.Ny/4; j++ {
			row := f.Row(k, j)
			for i := h + g.Nx/4; i < h+3*g.Nx/4; i++ {
				row[i] = 1
			}
		}
	}
}

// RandomField fills the interior of f with values in (0, 1) drawn from the
// NAS generator starting at seed. Ghost cells are set to zero.
func RandomField[T Float](f *Field[T], seed float64) {
	g := f.grid
	h := g.NumHalo
	f.Fill(0)
	x := seed
	buf := make([]float64, g.Nx)
	for k := 0; k < g.Nz; k++ {
		for j := h; j < h+g.Ny; j++ {
			common.Vranlc(&x, common.MultDefault, buf)
			row := f.Row(k, j)
			for i, v := range buf {
				row[h+i] = T(v)
			}
		}
	}
}

// HotCubeCells is the number of cells HotCube sets to 1, and so the mass
// of the initial condition.
func HotCubeCells(g Grid) int {
	span := func(n int) int { return 3*n/4 - n/4 }
	return span(g.Nz) * span(g.Ny) * span(g.Nx)
}
