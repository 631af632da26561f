//go:build B

package params

const (
	CLASS    = "B"
	NX       = 512
	NY       = 512
	NZ       = 64
	NITER    = 512
	NHALO    = 2
	EmptyTag = false
)
