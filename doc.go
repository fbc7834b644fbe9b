// Package bowtie locates the effective energy and geometric factor of a
// particle-detector channel from its energy response curve.
//
// The bow-tie method folds a family of candidate incident spectra through
// the channel response, forms a per-energy geometric-factor estimate for
// each spectrum, and finds the energy at which the estimates agree best.
// At that crossing point the inferred geometric factor is nearly independent
// of the assumed spectral shape.
//
// # Usage
//
// Build a grid, generate a spectral family, and solve per channel:
//
//	g, _ := grid.Default().Build()
//	spectra, _ := spectrum.PowerLawFamily{
//	    Grid: g, GammaMin: -3.5, GammaMax: -1.5, Steps: 100,
//	}.Generate()
//
//	res, err := bowtie.Solve(bowtie.Channel{
//	    Name: "E1", Grid: g, Response: resp,
//	}, spectra, bowtie.Params{
//	    EnergyMin: 0.01, EnergyMax: 1000, Sigma: 3,
//	})
//
// Result.EnergyLow and Result.EnergyHigh bracket the crossing within the
// chosen sigma level; a zero margin means no bound was found at that level,
// not a zero-width interval. The crossing energy and geometric factor remain
// meaningful in that case.
package bowtie
