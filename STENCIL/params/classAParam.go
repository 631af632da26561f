//go:build A

package params

const (
	CLASS    = "A"
	NX       = 256
	NY       = 256
	NZ       = 64
	NITER    = 256
	NHALO    = 2
	EmptyTag = false
)
