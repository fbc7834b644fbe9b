package archive

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/phirippu/bowtie/grid"
	"github.com/phirippu/bowtie/internal/testutil"
)

func testArchive(t *testing.T) (*Archive, *grid.Grid) {
	t.Helper()

	g, err := grid.Spec{ChannelsPerDecade: 16, MinEnergy: 0.1, MaxEnergy: 10}.Build()
	if err != nil {
		t.Fatal(err)
	}

	counts := make([]float64, g.Steps)
	for i, e := range g.Mid {
		if e >= 1 && e <= 2 {
			counts[i] = 2
		}
	}

	a := &Archive{
		ParticlesShot: 999,
		RadiationArea: 100,
		EnergyMid:     g.Mid,
		EnergyHigh:    g.High,
		EnergyWidth:   g.Width,
		ChannelNames:  []string{"E1"},
		Counts:        map[string][]float64{"E1": counts},
	}

	return a, g
}

func TestRoundTrip(t *testing.T) {
	a, g := testArchive(t)

	var buf bytes.Buffer
	if err := a.Write(&buf); err != nil {
		t.Fatal(err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if got.ParticlesShot != a.ParticlesShot || got.RadiationArea != a.RadiationArea {
		t.Errorf("scalars not preserved: %+v", got)
	}

	gg, err := got.Grid()
	if err != nil {
		t.Fatal(err)
	}

	if gg.Steps != g.Steps {
		t.Fatalf("Steps = %d, want %d", gg.Steps, g.Steps)
	}

	for i := range gg.Steps {
		if gg.Mid[i] != g.Mid[i] {
			t.Fatalf("Mid[%d] = %g, want %g", i, gg.Mid[i], g.Mid[i])
		}
	}
}

func TestChannelsNormalization(t *testing.T) {
	a, g := testArchive(t)

	chs, err := a.Channels([]string{"E1"})
	if err != nil {
		t.Fatal(err)
	}

	if len(chs) != 1 || chs[0].Name != "E1" {
		t.Fatalf("got %+v, want one channel named E1", chs)
	}

	// response = counts / ((shots+1)/area) * pi
	norm := a.RadiationArea * math.Pi / (a.ParticlesShot + 1)

	counts := a.Counts["E1"]

	want := make([]float64, len(counts))
	for i, c := range counts {
		want[i] = c * norm
	}

	testutil.RequireSliceNearlyEqual(t, chs[0].Response, want, 1e-12)

	if chs[0].Grid.Steps != g.Steps {
		t.Errorf("channel grid steps = %d, want %d", chs[0].Grid.Steps, g.Steps)
	}
}

func TestChannelsErrors(t *testing.T) {
	a, _ := testArchive(t)

	if _, err := a.Channels(nil); err != ErrNoChannels {
		t.Errorf("Channels(nil) error = %v, want %v", err, ErrNoChannels)
	}

	if _, err := a.Channels([]string{"P1"}); err == nil || !strings.Contains(err.Error(), "unknown channel") {
		t.Errorf("Channels(unknown) error = %v, want unknown channel", err)
	}

	short := *a
	short.Counts = map[string][]float64{"E1": {1, 2, 3}}

	if _, err := short.Channels([]string{"E1"}); err != ErrShape {
		t.Errorf("Channels(short counts) error = %v, want %v", err, ErrShape)
	}

	flat := *a
	flat.RadiationArea = 0

	if _, err := flat.Channels([]string{"E1"}); err != ErrArea {
		t.Errorf("Channels(zero area) error = %v, want %v", err, ErrArea)
	}
}
