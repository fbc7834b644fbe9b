// Package archive reads instrument-simulation response archives and turns
// raw per-bin counts into geometric-factor response curves.
//
// An archive records one Geant4-style response run: the number of particles
// shot per energy bin from an isotropically radiating sphere, the area of
// that sphere, the energy binning, and the per-channel detected counts.
// Archives are msgpack-encoded.
package archive

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-vecmath"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/phirippu/bowtie"
	"github.com/phirippu/bowtie/grid"
)

// Errors returned by archive accessors.
var (
	ErrNoChannels = errors.New("archive: no channels selected")
	ErrShape      = errors.New("archive: counts length must match the energy bins")
	ErrArea       = errors.New("archive: radiation area must be positive")
)

// Archive is the on-disk record of a response simulation.
type Archive struct {
	ParticlesShot float64              `msgpack:"particles_shot"` // particles shot per energy bin
	RadiationArea float64              `msgpack:"radiation_area"` // radiating sphere area, cm2
	EnergyMid     []float64            `msgpack:"energy_mid"`     // bin midpoints, MeV
	EnergyHigh    []float64            `msgpack:"energy_high"`    // upper bin edges, MeV
	EnergyWidth   []float64            `msgpack:"energy_width"`   // bin widths, MeV
	ChannelNames  []string             `msgpack:"channel_names"`
	Counts        map[string][]float64 `msgpack:"counts"` // detected counts per channel per bin
}

// Read decodes an archive from r.
func Read(r io.Reader) (*Archive, error) {
	var a Archive
	if err := msgpack.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("archive: decode: %w", err)
	}

	return &a, nil
}

// ReadFile decodes the archive stored at path.
func ReadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Write encodes the archive to w.
func (a *Archive) Write(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(a); err != nil {
		return fmt.Errorf("archive: encode: %w", err)
	}

	return nil
}

// Grid reconstructs the energy grid recorded in the archive.
func (a *Archive) Grid() (*grid.Grid, error) {
	return grid.FromBins(a.EnergyMid, a.EnergyHigh, a.EnergyWidth)
}

// Channels converts the raw counts of the named channels into bowtie
// channels sharing one reconstructed grid. Counts are normalized to a
// geometric-factor curve by the simulation geometry:
//
//	response = counts / ((shots + 1) / area) * pi
func (a *Archive) Channels(names []string) ([]bowtie.Channel, error) {
	if len(names) == 0 {
		return nil, ErrNoChannels
	}

	if a.RadiationArea <= 0 {
		return nil, ErrArea
	}

	g, err := a.Grid()
	if err != nil {
		return nil, err
	}

	norm := 1.0 / ((a.ParticlesShot + 1) / a.RadiationArea) * math.Pi

	chs := make([]bowtie.Channel, len(names))

	for i, name := range names {
		counts, ok := a.Counts[name]
		if !ok {
			return nil, fmt.Errorf("archive: unknown channel %q", name)
		}

		if len(counts) != g.Steps {
			return nil, ErrShape
		}

		resp := make([]float64, len(counts))
		vecmath.ScaleBlock(resp, counts, norm)

		chs[i] = bowtie.Channel{Name: name, Grid: g, Response: resp}
	}

	return chs, nil
}
