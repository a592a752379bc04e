package halftone

import (
	"math"
	"testing"
)

func TestRadiusFor(t *testing.T) {
	tests := []struct {
		name       string
		brightness float64
		gamma      float64
		maxRadius  float64
		threshold  float64
		wantRadius float64
		wantEmit   bool
	}{
		{"flat mid-gray linear", 0.5, 1.0, 8, 0.85, 4, true},
		{"pure white is negative space", 1.0, 1.0, 8, 0.85, 0, false},
		{"pure black hits max radius", 0.0, 1.0, 8, 0.85, 8, true},
		{"exactly at threshold still emits", 0.85, 1.0, 8, 0.85, 8 * 0.15, true},
		{"just above threshold drops", 0.86, 1.0, 8, 0.85, 0, false},
		{"gamma sculpts before threshold", 0.9, 2.0, 8, 0.85, 8 * (1 - 0.81), true},
		{"threshold zero keeps only black", 0.1, 1.0, 8, 0, 0, false},
		{"threshold one keeps everything", 0.999, 1.0, 8, 1, 8 * 0.001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, emit := RadiusFor(tt.brightness, tt.gamma, tt.maxRadius, tt.threshold)
			if emit != tt.wantEmit {
				t.Fatalf("emit = %v, want %v", emit, tt.wantEmit)
			}
			if emit && math.Abs(r-tt.wantRadius) > 1e-9 {
				t.Errorf("radius = %g, want %g", r, tt.wantRadius)
			}
		})
	}
}

func TestRadiusFor_Monotone(t *testing.T) {
	// Increasing brightness must never increase the radius, and crossing
	// the threshold removes the mark for good.
	prev := math.Inf(1)
	emitted := true
	for b := 0.0; b <= 1.0; b += 0.01 {
		r, emit := RadiusFor(b, 1.3, 10, 0.8)
		if emit {
			if !emitted {
				t.Fatalf("mark re-appeared at brightness %g after threshold cut it", b)
			}
			if r > prev {
				t.Fatalf("radius increased with brightness: %g > %g at b=%g", r, prev, b)
			}
			prev = r
		} else {
			emitted = false
		}
	}
	if emitted {
		t.Error("expected the threshold to cut marks before brightness 1")
	}
}

func TestRadiusFor_Bounds(t *testing.T) {
	for _, gamma := range []float64{0.5, 0.7, 1.0, 1.4, 2.2} {
		for b := -0.5; b <= 1.5; b += 0.05 {
			r, emit := RadiusFor(b, gamma, 7, 0.95)
			if !emit {
				continue
			}
			if r < 0 || r > 7 {
				t.Fatalf("radius %g out of [0, 7] at b=%g gamma=%g", r, b, gamma)
			}
		}
	}
}

func TestRadiusFor_Pure(t *testing.T) {
	r1, e1 := RadiusFor(0.37, 1.2, 9, 0.9)
	r2, e2 := RadiusFor(0.37, 1.2, 9, 0.9)
	if r1 != r2 || e1 != e2 {
		t.Error("RadiusFor should return identical output for identical input")
	}
}
