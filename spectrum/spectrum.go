// Package spectrum generates families of candidate incident-particle spectra
// for bowtie folding.
//
// A family spans a range of spectral steepness, with power-law indices spaced
// linearly from GammaMin to GammaMax inclusive. The bowtie method relies on
// the family being broad enough that the crossing point of the inferred
// geometric factors is stable against the assumed spectral shape.
package spectrum

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/phirippu/bowtie/grid"
)

// Errors returned by spectrum generators.
var (
	ErrNilGrid        = errors.New("spectrum: grid is nil")
	ErrSteps          = errors.New("spectrum: family must have at least one spectrum")
	ErrGammaOrder     = errors.New("spectrum: gamma min must not exceed gamma max")
	ErrGammaSingular  = errors.New("spectrum: integral power law is undefined for gamma == -1")
	ErrIntegralCutoff = errors.New("spectrum: integral spectra are not supported for the cutoff model")
	ErrCutoffEnergy   = errors.New("spectrum: cutoff energy must be positive")
)

// floorFlux replaces vanishing or negative cutoff-model values so that
// log-domain statistics downstream stay finite.
const floorFlux = 1.0e-30

// Model is one candidate incident spectrum evaluated on a shared grid.
// Differential holds the flux density at the bin midpoints. Integral, when
// present, holds the cumulative-above-energy flux at the bin lower edges.
// Both are aligned index-for-index with the grid the model was built from.
type Model struct {
	Gamma        float64
	Differential []float64
	Integral     []float64
}

// PowerLaw evaluates the differential power law norm * E^gamma at the grid
// midpoints.
func PowerLaw(g *grid.Grid, gamma, norm float64) ([]float64, error) {
	if g == nil {
		return nil, ErrNilGrid
	}

	out := make([]float64, g.Steps)
	for i, e := range g.Mid {
		out[i] = norm * math.Pow(e, gamma)
	}

	return out, nil
}

// IntegralPowerLaw evaluates the closed-form integral power law
// -norm * E^(gamma+1) / (gamma+1) at the bin lower edges. The closed form is
// singular at gamma == -1.
func IntegralPowerLaw(g *grid.Grid, gamma, norm float64) ([]float64, error) {
	if g == nil {
		return nil, ErrNilGrid
	}

	if gamma == -1 {
		return nil, ErrGammaSingular
	}

	pw := make([]float64, g.Steps)
	for i, e := range g.Low {
		pw[i] = math.Pow(e, gamma+1)
	}

	out := make([]float64, g.Steps)
	vecmath.ScaleBlock(out, pw, -norm/(gamma+1))

	return out, nil
}

// PowerLawFamily generates plain power-law spectra with indices spaced
// linearly from GammaMin to GammaMax, both endpoints included.
type PowerLawFamily struct {
	Grid         *grid.Grid
	GammaMin     float64
	GammaMax     float64
	Steps        int     // number of spectra in the family
	Norm         float64 // spectral norm factor; zero means 1
	WithIntegral bool    // also generate integral-form spectra
}

// Validate checks that the family parameters are valid.
func (f PowerLawFamily) Validate() error {
	if f.Grid == nil {
		return ErrNilGrid
	}

	if f.Steps < 1 {
		return ErrSteps
	}

	if f.GammaMin > f.GammaMax {
		return ErrGammaOrder
	}

	return nil
}

// Generate produces the family, ordered by gamma.
func (f PowerLawFamily) Generate() ([]Model, error) {
	err := f.Validate()
	if err != nil {
		return nil, err
	}

	norm := f.Norm
	if norm == 0 {
		norm = 1
	}

	gammas := span(f.GammaMin, f.GammaMax, f.Steps)
	models := make([]Model, len(gammas))

	for k, gamma := range gammas {
		diff, err := PowerLaw(f.Grid, gamma, norm)
		if err != nil {
			return nil, err
		}

		m := Model{Gamma: gamma, Differential: diff}

		if f.WithIntegral {
			m.Integral, err = IntegralPowerLaw(f.Grid, gamma, norm)
			if err != nil {
				return nil, err
			}
		}

		models[k] = m
	}

	return models, nil
}

// CutoffPowerLawFamily generates exponentially cut off power-law spectra:
//
//	dJ/dE = E^gamma * exp(-E0 / (E - E0)), E > E0
//
// Bins at or below the cutoff energy E0 are floored at a small positive
// value instead of the singular or negative formula result. Integral-form
// generation is not available for this model.
type CutoffPowerLawFamily struct {
	Grid         *grid.Grid
	GammaMin     float64
	GammaMax     float64
	Steps        int
	CutoffEnergy float64 // E0
	WithIntegral bool
}

// Validate checks that the family parameters are valid.
func (f CutoffPowerLawFamily) Validate() error {
	if f.Grid == nil {
		return ErrNilGrid
	}

	if f.Steps < 1 {
		return ErrSteps
	}

	if f.GammaMin > f.GammaMax {
		return ErrGammaOrder
	}

	if f.CutoffEnergy <= 0 {
		return ErrCutoffEnergy
	}

	if f.WithIntegral {
		return ErrIntegralCutoff
	}

	return nil
}

// Generate produces the family, ordered by gamma.
func (f CutoffPowerLawFamily) Generate() ([]Model, error) {
	err := f.Validate()
	if err != nil {
		return nil, err
	}

	gammas := span(f.GammaMin, f.GammaMax, f.Steps)
	models := make([]Model, len(gammas))

	// Index of the first midpoint at or above the cutoff; everything up to
	// and including it is floored.
	cut := f.Grid.SearchMid(f.CutoffEnergy)

	for k, gamma := range gammas {
		diff := make([]float64, f.Grid.Steps)
		for i, e := range f.Grid.Mid {
			diff[i] = math.Pow(e, gamma) * math.Exp(-f.CutoffEnergy/(e-f.CutoffEnergy))
		}

		for i := 0; i <= cut && i < len(diff); i++ {
			diff[i] = floorFlux
		}

		models[k] = Model{Gamma: gamma, Differential: diff}
	}

	return models, nil
}

// span returns n values linearly spaced over [lo, hi], both endpoints
// included.
func span(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}

	return floats.Span(make([]float64, n), lo, hi)
}
