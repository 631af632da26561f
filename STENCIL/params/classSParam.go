//go:build S

package params

const (
	CLASS    = "S"
	NX       = 64
	NY       = 64
	NZ       = 32
	NITER    = 64
	NHALO    = 2
	EmptyTag = false
)
