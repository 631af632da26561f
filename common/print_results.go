package common

import (
	"fmt"
	"io"
)

// Report holds everything PrintResults writes for one benchmark run.
type Report struct {
	Name       string
	Class      string
	Nx, Ny, Nz int
	NumHalo    int
	Iterations int
	Precision  string
	Workers    int
	Seconds    float64
	Mops       float64
	Verified   bool
	Version    string
}

func PrintResults(w io.Writer, r Report) {
	fmt.Fprintf(w, "\n\n %s Benchmark Completed\n", r.Name)
	class := r.Class
	if class == "" {
		class = "U"
	}
	fmt.Fprintf(w, " Class           =                        %s\n", class)
	fmt.Fprintf(w, " Size            =           %4dx%4dx%4d\n", r.Nx, r.Ny, r.Nz)
	fmt.Fprintf(w, " Halo points     =             %12d\n", r.NumHalo)
	fmt.Fprintf(w, " Iterations      =             %12d\n", r.Iterations)
	fmt.Fprintf(w, " Precision       =             %9s bit\n", r.Precision)
	fmt.Fprintf(w, " Workers         =             %12d\n", r.Workers)
	fmt.Fprintf(w, " Time in seconds =             %12.6f\n", r.Seconds)
	fmt.Fprintf(w, " Mop/s total     =             %12.2f\n", r.Mops)
	fmt.Fprintf(w, " Operation type  = %24s\n", "floating point")

	if r.Verified {
		fmt.Fprintln(w, " Verification    =               SUCCESSFUL")
	} else {
		fmt.Fprintln(w, " Verification    =            NOT PERFORMED")
	}

	fmt.Fprintf(w, " Version         =             %12s\n", r.Version)
	fmt.Fprintln(w, "\n\n----------------------------------------------------------------------")
	fmt.Fprintln(w)
}

// Mops converts a floating point operation count and a duration in seconds
// into millions of operations per second.
func Mops(flops float64, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return flops * 1.0e-6 / seconds
}
