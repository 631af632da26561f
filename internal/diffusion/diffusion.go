package diffusion

import "fmt"

// Diffusion advances a field with the explicit update
//
//	out = in - alpha * Laplacian(Laplacian(in))
//
// It owns two buffers and tracks which one holds the current state; each
// step writes the other one and the roles flip. Nothing is copied between
// the buffers. A Diffusion is not safe for concurrent use.
type Diffusion[T Float] struct {
	grid  Grid
	alpha T
	pool  *Pool

	buf [2]*Field[T]
	cur int
	tmp *Field[T]

	steps int
}

// NewDiffusion takes ownership of in and out for the lifetime of the
// returned driver. in holds the initial state; out is scratch and is fully
// overwritten in the interior on the first step.
func NewDiffusion[T Float](in, out *Field[T], alpha T, p *Pool) (*Diffusion[T], error) {
	if in.grid != out.grid {
		return nil, fmt.Errorf("%w: grid %+v vs %+v", ErrFieldMismatch, in.grid, out.grid)
	}
	if sameStorage(in, out) {
		return nil, fmt.Errorf("%w: in and out share storage", ErrFieldMismatch)
	}
	if in.grid.NumHalo < 2 {
		return nil, fmt.Errorf("%w: num_halo %d, the biharmonic stencil needs at least 2", ErrInvalidGrid, in.grid.NumHalo)
	}
	tmp, err := NewField[T](in.grid)
	if err != nil {
		return nil, fmt.Errorf("scratch field: %w", err)
	}
	return &Diffusion[T]{
		grid:  in.grid,
		alpha: alpha,
		pool:  p,
		buf:   [2]*Field[T]{in, out},
		tmp:   tmp,
	}, nil
}

// Current returns the buffer holding the latest state.
func (d *Diffusion[T]) Current() *Field[T] { return d.buf[d.cur] }

// Scratch returns the buffer the next step will write.
func (d *Diffusion[T]) Scratch() *Field[T] { return d.buf[1-d.cur] }

// Steps returns the number of completed time steps.
func (d *Diffusion[T]) Steps() int { return d.steps }

func (d *Diffusion[T]) Grid() Grid { return d.grid }

// Apply runs numIter time steps and returns the buffer that received the
// most recent update, with its halo refreshed. With numIter == 0 the current
// buffer is halo-exchanged and returned with its interior untouched. After
// Apply, Current returns the same buffer, so a later call continues from it.
func (d *Diffusion[T]) Apply(numIter int) (*Field[T], error) {
	if numIter < 0 {
		return nil, fmt.Errorf("%w: num_iter %d is negative", ErrInvalidArgument, numIter)
	}
	if numIter == 0 {
		UpdateHalo(d.Current(), d.pool)
		return d.Current(), nil
	}

	for n := 0; n < numIter; n++ {
		in, out := d.Current(), d.Scratch()

		UpdateHalo(in, d.pool)
		laplacian(in.data, d.tmp.data, d.grid, 1, d.pool)
		laplacian(d.tmp.data, out.data, d.grid, 0, d.pool)
		d.update(in, out)

		if n == numIter-1 {
			UpdateHalo(out, d.pool)
		}
		d.cur = 1 - d.cur
		d.steps++
	}
	return d.Current(), nil
}

// update computes out = in - alpha*out over the interior.
func (d *Diffusion[T]) update(in, out *Field[T]) {
	g := d.grid
	h, w, ht := g.NumHalo, g.Width(), g.Height()
	alpha := d.alpha
	src, dst := in.data, out.data

	d.pool.For(0, g.Nz*g.Ny, func(s, e int) {
		for n := s; n < e; n++ {
			k, j := n/g.Ny, h+n%g.Ny
			c := (k*ht+j)*w + h
			for idx := c; idx < c+g.Nx; idx++ {
				// the conversion rounds the product before the subtraction,
				// so no fused multiply-add changes the result per platform
				dst[idx] = src[idx] - T(alpha*dst[idx])
			}
		}
	})
}

// ApplyDiffusion advances in by numIter steps using out as the second
// buffer and returns whichever of the two holds the result.
func ApplyDiffusion[T Float](in, out *Field[T], alpha T, numIter int, p *Pool) (*Field[T], error) {
	d, err := NewDiffusion(in, out, alpha, p)
	if err != nil {
		return nil, err
	}
	return d.Apply(numIter)
}
