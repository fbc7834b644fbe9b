// Package testutil provides fixtures shared by the energy-response tests:
// canonical logarithmic grids and boxcar curves used as both spectra and
// channel responses.
package testutil

import (
	"testing"

	"github.com/phirippu/bowtie/grid"
)

// Grid builds a logarithmic energy grid or fails the test.
func Grid(tb testing.TB, channelsPerDecade int, minEnergy, maxEnergy float64) *grid.Grid {
	tb.Helper()

	g, err := grid.Spec{
		ChannelsPerDecade: channelsPerDecade,
		MinEnergy:         minEnergy,
		MaxEnergy:         maxEnergy,
	}.Build()
	if err != nil {
		tb.Fatal(err)
	}

	return g
}

// Boxcar fills the band [lo, hi] with value at the grid midpoints and
// leaves every other bin at zero.
func Boxcar(g *grid.Grid, lo, hi, value float64) []float64 {
	out := make([]float64, g.Steps)
	for i, e := range g.Mid {
		if e >= lo && e <= hi {
			out[i] = value
		}
	}

	return out
}
