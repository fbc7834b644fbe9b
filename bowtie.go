package bowtie

import (
	"errors"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"

	"github.com/phirippu/bowtie/fold"
	"github.com/phirippu/bowtie/grid"
	"github.com/phirippu/bowtie/internal/bisect"
	"github.com/phirippu/bowtie/spectrum"
)

// Errors returned by Solve.
var (
	ErrNilGrid        = errors.New("bowtie: channel grid is nil")
	ErrResponseShape  = errors.New("bowtie: response length must match the grid")
	ErrNoSpectra      = errors.New("bowtie: no model spectra")
	ErrSpectrumShape  = errors.New("bowtie: model spectrum length must match the grid")
	ErrNoIntegral     = errors.New("bowtie: integral mode requires integral-form spectra")
	ErrNoUsableEnergy = errors.New("bowtie: no usable energies in the analysis window")
)

// Channel is one detector channel's response curve on a shared grid.
// Response holds a geometric-factor-like value per grid bin, in units of
// area x solid angle x energy. Solve never mutates a Channel.
type Channel struct {
	Name     string
	Grid     *grid.Grid
	Response []float64
}

// Params configure a bowtie analysis.
type Params struct {
	EnergyMin        float64 // lower edge of the analysis window, MeV
	EnergyMax        float64 // upper edge of the analysis window, MeV
	Sigma            float64 // confidence width for the energy margins
	IntegralSpectrum bool    // divide by integral rather than differential spectra
	WithStdDev       bool    // also report the relative GF spread at the crossing
}

// Result is the outcome of one bowtie analysis.
type Result struct {
	GeometricFactor float64 // geometric mean of the per-spectrum GF at the crossing
	GFStdDev        float64 // stddev / geometric mean at the crossing; set only with WithStdDev
	EffectiveEnergy float64 // grid midpoint at the crossing, MeV
	EnergyLow       float64 // lower sigma margin; 0 means no bound found
	EnergyHigh      float64 // upper sigma margin; 0 means no bound found
}

// Solve runs the bowtie analysis for one channel against a family of model
// spectra.
//
// Each spectrum is folded through the response, giving one predicted rate
// per spectrum; dividing the rate by the spectrum value at every grid energy
// inside [EnergyMin, EnergyMax) yields a per-energy geometric-factor
// estimate per spectrum. At each energy the spread of the estimates across
// the family is measured as stddev over geometric mean, a scale-free
// statistic that can be compared across energies spanning orders of
// magnitude. The crossing point is the energy of minimum spread; the sigma
// margins bracket it where the spread, normalized to 1 at its minimum,
// crosses 1 + Sigma.
//
// A margin of 0 in the Result means the corresponding side had no such
// crossing at this sigma level. Solve is pure: identical inputs produce
// identical results, and inputs are never mutated.
func Solve(ch Channel, spectra []spectrum.Model, p Params) (Result, error) {
	if ch.Grid == nil {
		return Result{}, ErrNilGrid
	}

	if len(ch.Response) != ch.Grid.Steps {
		return Result{}, ErrResponseShape
	}

	if len(spectra) == 0 {
		return Result{}, ErrNoSpectra
	}

	gf, err := gfEstimates(ch, spectra, p)
	if err != nil {
		return Result{}, err
	}

	energies, columns := usableColumns(ch.Grid.Mid, gf)
	if len(energies) == 0 {
		return Result{}, ErrNoUsableEnergy
	}

	spread := make([]float64, len(columns))
	for j, c := range columns {
		spread[j] = stat.StdDev(c, nil) / stat.GeometricMean(c, nil)
	}

	cross := floats.MinIdx(spread)

	res := Result{
		GeometricFactor: stat.GeometricMean(columns[cross], nil),
		EffectiveEnergy: energies[cross],
	}

	if p.WithStdDev {
		res.GFStdDev = spread[cross]
	}

	res.EnergyLow, res.EnergyHigh = sigmaMargins(energies, spread, cross, p.Sigma)

	return res, nil
}

// gfEstimates folds every spectrum through the channel response and forms
// the per-spectrum, per-energy geometric-factor estimates. Entries outside
// the analysis window stay 0.
func gfEstimates(ch Channel, spectra []spectrum.Model, p Params) ([][]float64, error) {
	iLo := ch.Grid.SearchMid(p.EnergyMin)
	iHi := min(ch.Grid.SearchMid(p.EnergyMax), ch.Grid.Steps)

	gf := make([][]float64, len(spectra))

	for k, m := range spectra {
		if len(m.Differential) != ch.Grid.Steps {
			return nil, ErrSpectrumShape
		}

		denom := m.Differential

		if p.IntegralSpectrum {
			if m.Integral == nil {
				return nil, ErrNoIntegral
			}

			if len(m.Integral) != ch.Grid.Steps {
				return nil, ErrSpectrumShape
			}

			denom = m.Integral
		}

		// Folding always uses the differential spectrum; only the GF
		// denominator switches in integral mode.
		r := fold.Rate(ch.Grid, m.Differential, ch.Response)

		row := make([]float64, ch.Grid.Steps)
		for i := iLo; i < iHi; i++ {
			row[i] = r / denom[i]
		}

		gf[k] = row
	}

	return gf, nil
}

// usableColumns retains the grid columns whose across-spectrum mean GF is
// positive and returns their energies and per-spectrum values. Columns
// outside the analysis window are all zero and drop out here.
func usableColumns(mids []float64, gf [][]float64) ([]float64, [][]float64) {
	steps := len(mids)
	col := make([]float64, len(gf))

	energies := make([]float64, 0, steps)
	columns := make([][]float64, 0, steps)

	for i := range steps {
		for k := range gf {
			col[k] = gf[k][i]
		}

		if stat.Mean(col, nil) <= 0 {
			continue
		}

		c := make([]float64, len(col))
		copy(c, col)

		energies = append(energies, mids[i])
		columns = append(columns, c)
	}

	return energies, columns
}

// sigmaMargins brackets the crossing point from each side independently.
// The spread curve is normalized to 1 at its minimum and shifted down by
// 1 + sigma, so its zero crossings mark the sigma bound; each side is a
// separate bisection that may fail on its own, reported as a 0 margin.
func sigmaMargins(energies, spread []float64, cross int, sigma float64) (low, high float64) {
	if len(energies) < 2 {
		return 0, 0
	}

	minSpread := spread[cross]

	shifted := make([]float64, len(spread))
	for j, s := range spread {
		shifted[j] = s/minSpread - 1 - sigma
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(energies, shifted); err != nil {
		return 0, 0
	}

	if x, err := bisect.Find(pl.Predict, energies[0], energies[cross]); err == nil {
		low = x
	}

	if x, err := bisect.Find(pl.Predict, energies[cross], energies[len(energies)-1]); err == nil {
		high = x
	}

	return low, high
}

// SolveAll runs Solve for every channel concurrently, one goroutine per
// channel. All inputs are read-only, so no synchronization is needed beyond
// the final join. The returned slices are aligned with chs.
func SolveAll(chs []Channel, spectra []spectrum.Model, p Params) ([]Result, []error) {
	results := make([]Result, len(chs))
	errs := make([]error, len(chs))

	var wg sync.WaitGroup

	for i, ch := range chs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], errs[i] = Solve(ch, spectra, p)
		}()
	}

	wg.Wait()

	return results, errs
}
