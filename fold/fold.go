// Package fold integrates the product of an incident spectrum and a channel
// response over an energy grid, predicting the count rate in the channel.
package fold

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/integrate"

	"github.com/phirippu/bowtie/grid"
)

// Errors returned by RateStrict.
var (
	ErrNilGrid = errors.New("fold: grid is nil")
	ErrNilData = errors.New("fold: spectrum or response is nil")
	ErrShape   = errors.New("fold: spectrum and response must match the grid length")
)

// Rate computes Int(spectrum(E) * response(E) dE) by trapezoidal quadrature
// over the grid midpoints.
//
// The fallback values are deliberately permissive and are part of the
// contract: a nil grid yields NaN (a caller error, distinct from a
// legitimate zero rate), a nil spectrum or response yields 0 (a channel with
// no data folds to zero), and a length mismatch yields 0. Use RateStrict to
// surface these conditions as errors instead.
func Rate(g *grid.Grid, spectrum, response []float64) float64 {
	if g == nil {
		return math.NaN()
	}

	if spectrum == nil || response == nil {
		return 0
	}

	if len(spectrum) != len(response) || len(spectrum) != len(g.Mid) {
		return 0
	}

	return rate(g, spectrum, response)
}

// RateStrict is Rate with the fallback values promoted to errors.
func RateStrict(g *grid.Grid, spectrum, response []float64) (float64, error) {
	if g == nil {
		return 0, ErrNilGrid
	}

	if spectrum == nil || response == nil {
		return 0, ErrNilData
	}

	if len(spectrum) != len(response) || len(spectrum) != len(g.Mid) {
		return 0, ErrShape
	}

	return rate(g, spectrum, response), nil
}

func rate(g *grid.Grid, spectrum, response []float64) float64 {
	product := make([]float64, len(spectrum))
	vecmath.MulBlock(product, spectrum, response)

	return integrate.Trapezoidal(g.Mid, product)
}
