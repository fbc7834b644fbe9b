// Package grid constructs the logarithmic energy binning shared by model
// spectra and channel responses.
//
// Bin edges are spaced uniformly in log10 energy with a configurable number
// of channels per decade. Power-law spectra and response curves sampled on
// such a grid are uniformly resolved across decades, which keeps the folding
// quadrature accurate over the full energy range.
package grid

import (
	"errors"
	"math"
	"sort"
)

// Errors returned by grid constructors.
var (
	ErrChannelsPerDecade = errors.New("grid: channels per decade must be positive")
	ErrEnergyRange       = errors.New("grid: min energy must be positive and below max energy")
	ErrBinShape          = errors.New("grid: bin arrays must be non-empty and of equal length")
	ErrBinOrder          = errors.New("grid: bin midpoints must be strictly increasing")
)

// Default grid parameters.
const (
	DefaultChannelsPerDecade = 256
	DefaultMinEnergy         = 0.01
	DefaultMaxEnergy         = 1.0e5
)

// Grid is an immutable logarithmic energy binning. Mid, High, Low and Width
// are aligned index-for-index; bins are contiguous and strictly increasing,
// and each midpoint lies strictly between its bin edges. A Grid is shared by
// reference across all spectra and responses built against it and must not
// be mutated after construction.
type Grid struct {
	Steps int       // number of energy bins
	Mid   []float64 // geometric bin midpoints
	High  []float64 // upper bin edges
	Low   []float64 // lower bin edges
	Width []float64 // High - Low
}

// Spec holds the parameters for building a logarithmic energy grid.
type Spec struct {
	ChannelsPerDecade int     // bins per decade of energy
	MinEnergy         float64 // lowest energy covered, MeV
	MaxEnergy         float64 // highest energy covered, MeV
}

// Default returns the standard grid parameters: 256 channels per decade
// from 0.01 to 1e5 MeV.
func Default() Spec {
	return Spec{
		ChannelsPerDecade: DefaultChannelsPerDecade,
		MinEnergy:         DefaultMinEnergy,
		MaxEnergy:         DefaultMaxEnergy,
	}
}

// Validate checks that the Spec parameters are valid.
func (s Spec) Validate() error {
	if s.ChannelsPerDecade <= 0 {
		return ErrChannelsPerDecade
	}

	if s.MinEnergy <= 0 || s.MaxEnergy <= s.MinEnergy {
		return ErrEnergyRange
	}

	return nil
}

// Build constructs the grid. The first bin edge is aligned down to the
// nearest 1/ChannelsPerDecade of a decade at or below MinEnergy, and edges
// advance by one log step per bin:
//
//	low[i]  = 10^start * 10^(i/cpd)
//	high[i] = 10^start * 10^((i+1)/cpd)
//	mid[i]  = 10^start * 10^((i+0.5)/cpd)
func (s Spec) Build() (*Grid, error) {
	err := s.Validate()
	if err != nil {
		return nil, err
	}

	cpd := float64(s.ChannelsPerDecade)
	logStep := 1.0 / cpd

	eminStart := math.Floor(math.Log10(s.MinEnergy)*cpd) / cpd
	emaxStop := math.Floor(math.Log10(s.MaxEnergy)*cpd) / cpd
	steps := int(math.Round((emaxStop-eminStart)*cpd)) + 1

	base := math.Pow(10, eminStart)

	g := &Grid{
		Steps: steps,
		Mid:   make([]float64, steps),
		High:  make([]float64, steps),
		Low:   make([]float64, steps),
		Width: make([]float64, steps),
	}

	for i := range steps {
		fi := float64(i)

		low := base * math.Pow(10, logStep*fi)
		high := base * math.Pow(10, logStep*(fi+1))

		g.Low[i] = low
		g.High[i] = high
		g.Mid[i] = base * math.Pow(10, logStep*(fi+0.5))
		g.Width[i] = high - low
	}

	return g, nil
}

// FromBins reconstructs a grid from archived bin metadata: midpoints, upper
// edges, and bin widths. Lower edges are recovered as high - width.
func FromBins(mid, high, width []float64) (*Grid, error) {
	steps := len(mid)
	if steps == 0 || len(high) != steps || len(width) != steps {
		return nil, ErrBinShape
	}

	g := &Grid{
		Steps: steps,
		Mid:   make([]float64, steps),
		High:  make([]float64, steps),
		Low:   make([]float64, steps),
		Width: make([]float64, steps),
	}

	for i := range steps {
		if i > 0 && mid[i] <= mid[i-1] {
			return nil, ErrBinOrder
		}

		g.Mid[i] = mid[i]
		g.High[i] = high[i]
		g.Low[i] = high[i] - width[i]
		g.Width[i] = width[i]
	}

	return g, nil
}

// SearchMid returns the index of the first midpoint that is >= e, or Steps
// if every midpoint is below e.
func (g *Grid) SearchMid(e float64) int {
	return sort.SearchFloat64s(g.Mid, e)
}
