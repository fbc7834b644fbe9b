// Package bisect provides a scalar bisection root finder for the
// sigma-margin search. gonum carries no one-dimensional root finder, so the
// handful of lines live here.
package bisect

import (
	"errors"
	"math"
)

// ErrNoSignChange is returned when f(a) and f(b) do not bracket a root.
var ErrNoSignChange = errors.New("bisect: no sign change over the interval")

const (
	maxIter = 200
	xtol    = 1e-12
)

// Find locates a zero of f on [a, b]. f(a) and f(b) must differ in sign.
func Find(f func(float64) float64, a, b float64) (float64, error) {
	fa := f(a)
	if fa == 0 {
		return a, nil
	}

	fb := f(b)
	if fb == 0 {
		return b, nil
	}

	if math.IsNaN(fa) || math.IsNaN(fb) || math.Signbit(fa) == math.Signbit(fb) {
		return 0, ErrNoSignChange
	}

	for range maxIter {
		mid := 0.5 * (a + b)

		fm := f(mid)
		if fm == 0 || math.Abs(b-a) < xtol*(1+math.Abs(mid)) {
			return mid, nil
		}

		if math.Signbit(fa) != math.Signbit(fm) {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}

	return 0.5 * (a + b), nil
}
