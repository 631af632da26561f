package diffusion

import "fmt"

// Laplacian writes the 5-point Laplacian of in into out, layer by layer,
// over rows and columns [h-extend, n+h+extend). With extend == 1 the region
// grows by one ring so a second pass over the result stays valid in the
// interior; the last column then reads the final stored cell of each row.
// Cells of out outside the region keep their previous contents.
func Laplacian[T Float](in, out *Field[T], extend int, p *Pool) error {
	if in.grid != out.grid {
		return fmt.Errorf("%w: grid %+v vs %+v", ErrFieldMismatch, in.grid, out.grid)
	}
	if sameStorage(in, out) {
		return fmt.Errorf("%w: laplacian cannot run in place", ErrFieldMismatch)
	}
	if extend != 0 && extend != 1 {
		return fmt.Errorf("%w: extend %d, want 0 or 1", ErrInvalidArgument, extend)
	}
	if in.grid.NumHalo-extend < 1 {
		return fmt.Errorf("%w: num_halo %d too small for extend %d", ErrInvalidArgument, in.grid.NumHalo, extend)
	}
	laplacian(in.data, out.data, in.grid, extend, p)
	return nil
}

// laplacian is the unchecked kernel. The neighbour offsets stay inside the
// stored array as long as NumHalo-extend >= 1.
func laplacian[T Float](in, out []T, g Grid, extend int, p *Pool) {
	h, w, ht := g.NumHalo, g.Width(), g.Height()
	lo := h - extend
	jhi := ht - h + extend
	ihi := w - h + extend
	rows := jhi - lo

	p.For(0, g.Nz*rows, func(s, e int) {
		for n := s; n < e; n++ {
			k, j := n/rows, lo+n%rows
			c := (k*ht + j) * w
			for idx := c + lo; idx < c+ihi; idx++ {
				out[idx] = -4*in[idx] + in[idx-1] + in[idx+1] + in[idx-w] + in[idx+w]
			}
		}
	})
}
