//go:build !S && !W && !A && !B

package params

const (
	CLASS    = ""
	NX       = 0
	NY       = 0
	NZ       = 0
	NITER    = 0
	NHALO    = 2
	EmptyTag = true
)
