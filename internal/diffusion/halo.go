package diffusion

// UpdateHalo fills the ghost margins of f with periodic copies of the
// opposite interior edge on the x and y axes; z is never wrapped.
//
// The y margins are written first from interior columns only. The x margins
// are then copied over every stored row, y-halo rows included, so the corner
// blocks end up holding the diagonally opposite interior corner. Each copy
// reads cells of the interior along the axis being exchanged, so a second
// call leaves the field unchanged.
func UpdateHalo[T Float](f *Field[T], p *Pool) {
	g := f.grid
	h, w, ht := g.NumHalo, g.Width(), g.Height()
	nx, ny := g.Nx, g.Ny
	d := f.data

	p.For(0, g.Nz*h, func(s, e int) {
		for n := s; n < e; n++ {
			k, j := n/h, n%h
			layer := k * ht * w

			bottom := layer + j*w
			src := layer + (ny+j)*w
			copy(d[bottom+h:bottom+h+nx], d[src+h:src+h+nx])

			top := layer + (h+ny+j)*w
			src = layer + (h+j)*w
			copy(d[top+h:top+h+nx], d[src+h:src+h+nx])
		}
	})

	p.For(0, g.Nz*ht, func(s, e int) {
		for r := s; r < e; r++ {
			row := d[r*w : (r+1)*w]
			copy(row[:h], row[nx:nx+h])
			copy(row[h+nx:], row[h:2*h])
		}
	})
}

// HaloConsistent reports whether every ghost cell of f is bit-identical to
// the interior cell it wraps around to.
func HaloConsistent[T Float](f *Field[T]) bool {
	g := f.grid
	h := g.NumHalo
	wrap := func(x, n int) int { return h + ((x-h)%n+n)%n }

	for k := 0; k < g.Nz; k++ {
		for j := 0; j < g.Height(); j++ {
			yGhost := j < h || j >= h+g.Ny
			row := f.Row(k, j)
			for i, v := range row {
				if !yGhost && i >= h && i < h+g.Nx {
					continue
				}
				if v != f.At(k, wrap(j, g.Ny), wrap(i, g.Nx)) {
					return false
				}
			}
		}
	}
	return true
}
