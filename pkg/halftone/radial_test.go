package halftone

import (
	"math"
	"testing"
)

func TestRadial_DensityParity(t *testing.T) {
	// On a uniform image the radial style must match the classic grid's
	// mark density. Compare counts inside a centered disk that both styles
	// fully cover, to keep canvas-corner effects out of the comparison.
	f := uniformField(240, 240, 0.3)
	cfg := DefaultConfig()
	cfg.CellSize, cfg.Gamma, cfg.Threshold = 12, 1.0, 0.95

	cfg.Style = StyleClassic
	classic, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("classic place: %v", err)
	}
	cfg.Style = StyleRadial
	radial, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("radial place: %v", err)
	}

	const diskR = 100.0
	inDisk := func(marks []Mark) int {
		n := 0
		for _, m := range marks {
			if math.Hypot(m.X-120, m.Y-120) <= diskR {
				n++
			}
		}
		return n
	}

	nc, nr := inDisk(classic.Marks), inDisk(radial.Marks)
	if nc == 0 {
		t.Fatal("classic placed no marks in the disk")
	}
	ratio := float64(nr) / float64(nc)
	if ratio < 0.9 || ratio > 1.1 {
		t.Errorf("radial/classic density ratio = %.3f (radial %d, classic %d), want within ±10%%", ratio, nr, nc)
	}
}

func TestRadial_Deterministic(t *testing.T) {
	f := uniformField(150, 150, 0.4)
	cfg := DefaultConfig()
	cfg.Style = StyleRadial
	cfg.Jitter = 0.3

	p1, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	p2, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(p1.Marks) != len(p2.Marks) {
		t.Fatalf("mark counts differ: %d vs %d", len(p1.Marks), len(p2.Marks))
	}
	for i := range p1.Marks {
		if p1.Marks[i] != p2.Marks[i] {
			t.Fatalf("mark %d differs between identical runs", i)
		}
	}
}

func TestRadial_MarksInsideCanvas(t *testing.T) {
	f := uniformField(100, 60, 0.2)
	cfg := DefaultConfig()
	cfg.Style = StyleRadial

	p, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(p.Marks) == 0 {
		t.Fatal("radial placed no marks on a dark field")
	}
	for _, m := range p.Marks {
		if m.X < 0 || m.Y < 0 || m.X >= 100 || m.Y >= 60 {
			t.Fatalf("mark outside canvas: (%g, %g)", m.X, m.Y)
		}
		if m.Radius <= 0 || m.Radius > cfg.MaxRadius {
			t.Fatalf("mark radius %g outside (0, %g]", m.Radius, cfg.MaxRadius)
		}
	}
}

func TestRadial_RespectsNegativeSpace(t *testing.T) {
	// Bright left half, dark right half: no ring mark may land on the
	// bright side.
	f := stepField(120, 120, 1.0, 0.1)
	cfg := DefaultConfig()
	cfg.Style = StyleRadial
	cfg.Gamma, cfg.Threshold = 1.0, 0.85

	p, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	for _, m := range p.Marks {
		if m.X < 50 {
			t.Fatalf("mark at (%g, %g) in negative space", m.X, m.Y)
		}
	}
}
