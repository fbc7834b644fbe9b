package bisect

import (
	"math"
	"testing"
)

func TestFindLinear(t *testing.T) {
	f := func(x float64) float64 { return x - 3 }

	root, err := Find(f, 0, 10)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(root-3) > 1e-9 {
		t.Errorf("root = %g, want 3", root)
	}
}

func TestFindNonlinear(t *testing.T) {
	f := func(x float64) float64 { return math.Log10(x) - 1 }

	root, err := Find(f, 1, 1000)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(root-10) > 1e-6 {
		t.Errorf("root = %g, want 10", root)
	}
}

func TestFindEndpointRoot(t *testing.T) {
	f := func(x float64) float64 { return x }

	root, err := Find(f, 0, 5)
	if err != nil {
		t.Fatal(err)
	}

	if root != 0 {
		t.Errorf("root = %g, want 0", root)
	}
}

func TestFindNoSignChange(t *testing.T) {
	f := func(x float64) float64 { return x*x + 1 }

	if _, err := Find(f, -5, 5); err != ErrNoSignChange {
		t.Errorf("Find() error = %v, want %v", err, ErrNoSignChange)
	}
}

func TestFindNaN(t *testing.T) {
	f := func(x float64) float64 { return math.NaN() }

	if _, err := Find(f, 0, 1); err != ErrNoSignChange {
		t.Errorf("Find() error = %v, want %v", err, ErrNoSignChange)
	}
}
