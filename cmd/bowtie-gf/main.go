// Command bowtie-gf runs the bow-tie analysis on a response archive and
// prints the geometric factor, effective energy, and sigma margins for each
// instrument channel.
//
// Usage:
//
//	bowtie-gf [flags] -archive file.msgpack
//
// Examples:
//
//	bowtie-gf -archive vault_e_256.msgpack -species e
//	bowtie-gf -archive vault_p_256.msgpack -species p -cutoff 0.2
//	bowtie-gf -archive vault_e_256.msgpack -channels E1,E2,E3 -sigma 2
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/phirippu/bowtie"
	"github.com/phirippu/bowtie/archive"
	"github.com/phirippu/bowtie/spectrum"
)

// Canonical channel order of the instrument: one housekeeping channel,
// seven electron channels, nine proton channels.
var channelNames = []string{
	"O",
	"E1", "E2", "E3", "E4", "E5", "E6", "E7",
	"P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8", "P9",
}

func speciesChannels(species string) ([]string, error) {
	switch species {
	case "e":
		return channelNames[1:8], nil
	case "p":
		return channelNames[8:17], nil
	}

	return nil, fmt.Errorf("unknown species %q (want e or p)", species)
}

func main() {
	var (
		path       = flag.String("archive", "", "response archive file (msgpack)")
		species    = flag.String("species", "e", "particle species: e or p")
		channels   = flag.String("channels", "", "comma-separated channel names (overrides -species)")
		gammaMin   = flag.Float64("gamma-min", -3.5, "lower power-law index")
		gammaMax   = flag.Float64("gamma-max", -1.5, "upper power-law index")
		gammaSteps = flag.Int("gamma-steps", 100, "number of model spectra")
		cutoff     = flag.Float64("cutoff", 0, "exponential cutoff energy in MeV (0 = plain power law)")
		emin       = flag.Float64("emin", 0.01, "lower analysis energy in MeV")
		emax       = flag.Float64("emax", 1000, "upper analysis energy in MeV")
		sigma      = flag.Float64("sigma", 3, "sigma level for the energy margins")
		integral   = flag.Bool("integral", false, "use integral-form spectra")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bowtie-gf [flags] -archive file\n\n")
		fmt.Fprintf(os.Stderr, "Runs the bow-tie analysis on a response archive.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	a, err := archive.ReadFile(*path)
	if err != nil {
		fatalf("%v", err)
	}

	names, err := selectNames(*channels, *species)
	if err != nil {
		fatalf("%v", err)
	}

	chs, err := a.Channels(names)
	if err != nil {
		fatalf("%v", err)
	}

	g := chs[0].Grid

	var spectra []spectrum.Model
	if *cutoff > 0 {
		spectra, err = spectrum.CutoffPowerLawFamily{
			Grid:         g,
			GammaMin:     *gammaMin,
			GammaMax:     *gammaMax,
			Steps:        *gammaSteps,
			CutoffEnergy: *cutoff,
		}.Generate()
	} else {
		spectra, err = spectrum.PowerLawFamily{
			Grid:         g,
			GammaMin:     *gammaMin,
			GammaMax:     *gammaMax,
			Steps:        *gammaSteps,
			WithIntegral: *integral,
		}.Generate()
	}

	if err != nil {
		fatalf("%v", err)
	}

	results, errs := bowtie.SolveAll(chs, spectra, bowtie.Params{
		EnergyMin:        *emin,
		EnergyMax:        *emax,
		Sigma:            *sigma,
		IntegralSpectrum: *integral,
		WithStdDev:       true,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Channel\tG (cm2 sr MeV)\tE (MeV)\tE low\tE high\tspread")

	failed := false

	for i, ch := range chs {
		if errs[i] != nil {
			fmt.Fprintf(w, "%s\t%v\n", ch.Name, errs[i])
			failed = true

			continue
		}

		r := results[i]
		fmt.Fprintf(w, "%s\t%.3g\t%.2g\t%.2g\t%.2g\t%.3g\n",
			ch.Name, r.GeometricFactor, r.EffectiveEnergy, r.EnergyLow, r.EnergyHigh, r.GFStdDev)
	}

	w.Flush()

	if failed {
		os.Exit(1)
	}
}

func selectNames(channels, species string) ([]string, error) {
	if channels == "" {
		return speciesChannels(species)
	}

	names := strings.Split(channels, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}

	return names, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "bowtie-gf: "+format+"\n", args...)
	os.Exit(1)
}
