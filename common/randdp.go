package common

import "math"

var (
	r23 = math.Pow(0.5, 23.0)
	r46 = r23 * r23
	t23 = math.Pow(2.0, 23.0)
	t46 = t23 * t23
)

// Default seed and multiplier of the NAS linear congruential generator.
const (
	SeedDefault = 314159265.0
	MultDefault = 1220703125.0 // pow(5.0, 13.0)
)

// Randlc advances the seed x by one step of x = a*x mod 2^46 and returns
// the new value scaled into (0, 1).
func Randlc(x *float64, a float64) float64 {
	t1 := r23 * a
	a1 := float64(int(t1))
	a2 := a - t23*a1

	t1 = r23 * (*x)
	x1 := float64(int(t1))
	x2 := *x - t23*x1

	t1 = a1*x2 + a2*x1
	t2 := float64(int(r23 * t1))
	z := t1 - t23*t2
	t3 := t23*z + a2*x2
	t4 := float64(int(r46 * t3))
	*x = t3 - t46*t4

	return r46 * (*x)
}

// Vranlc fills y with len(y) successive values of the generator.
func Vranlc(xSeed *float64, a float64, y []float64) {
	x := *xSeed

	t1 := r23 * a
	a1 := float64(int(t1))
	a2 := a - t23*a1

	for i := range y {
		t1 = r23 * x
		x1 := float64(int(t1))
		x2 := x - t23*x1

		t1 = a1*x2 + a2*x1
		t2 := float64(int(r23 * t1))
		z := t1 - t23*t2
		t3 := t23*z + a2*x2
		t4 := float64(int(r46 * t3))
		x = t3 - t46*t4
		y[i] = r46 * x
	}

	*xSeed = x
}
