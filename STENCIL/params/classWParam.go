//go:build W

package params

const (
	CLASS    = "W"
	NX       = 128
	NY       = 128
	NZ       = 64
	NITER    = 128
	NHALO    = 2
	EmptyTag = false
)
