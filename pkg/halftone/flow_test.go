package halftone

import "testing"

func TestFlow_Deterministic(t *testing.T) {
	f := stepField(120, 90, 0.7, 0.2)
	cfg := DefaultConfig()
	cfg.Style = StyleFlowField
	cfg.Seed = 42

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
	if p1.Truncated != p2.Truncated {
		t.Errorf("truncation counts differ: %d vs %d", p1.Truncated, p2.Truncated)
	}
}

func TestFlow_TerminatesOnFlatField(t *testing.T) {
	// A perfectly flat field has no gradient anywhere; tracing must still
	// finish via the step cap and coverage saturation, never hang.
	f := uniformField(100, 100, 0.3)
	cfg := DefaultConfig()
	cfg.Style = StyleFlowField
	cfg.FlowMaxSteps = 64

	done := make(chan Placement, 1)
	go func() {
		p, err := Place(f, cfg)
		if err != nil {
			t.Errorf("Place: %v", err)
		}
		done <- p
	}()

	p := <-done
	if len(p.Marks) == 0 {
		t.Error("flow placed no marks on a dark flat field")
	}
}

func TestFlow_PureWhiteEmitsNothing(t *testing.T) {
	f := uniformField(80, 80, 1.0)
	cfg := DefaultConfig()
	cfg.Style = StyleFlowField
	cfg.Threshold = 0.85

	p, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(p.Marks) != 0 {
		t.Errorf("pure white field emitted %d flow marks", len(p.Marks))
	}
}

func TestFlow_RadiusBounds(t *testing.T) {
	f := stepField(160, 120, 0.6, 0.05)
	cfg := DefaultConfig()
	cfg.Style = StyleFlowField
	cfg.EdgeBoost = 0.5

	p, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	for _, m := range p.Marks {
		if m.Radius <= 0 || m.Radius > cfg.MaxRadius {
			t.Fatalf("flow mark radius %g outside (0, %g]", m.Radius, cfg.MaxRadius)
		}
		if m.X < 0 || m.Y < 0 || m.X >= 160 || m.Y >= 120 {
			t.Fatalf("flow mark outside canvas: (%g, %g)", m.X, m.Y)
		}
	}
}

func TestFlow_DarkerMeansDenser(t *testing.T) {
	// Left half near-black, right half light gray: mark spacing tracks
	// brightness, so the dark half should collect more marks.
	f := stepField(200, 100, 0.05, 0.6)
	cfg := DefaultConfig()
	cfg.Style = StyleFlowField
	cfg.Gamma, cfg.Threshold = 1.0, 0.95

	p, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	left, right := 0, 0
	for _, m := range p.Marks {
		if m.X < 100 {
			left++
		} else {
			right++
		}
	}
	if left <= right {
		t.Errorf("dark half has %d marks, light half %d; expected denser dark half", left, right)
	}
}

func TestFlow_OrderIsSequential(t *testing.T) {
	f := uniformField(90, 90, 0.2)
	cfg := DefaultConfig()
	cfg.Style = StyleFlowField

	p, err := Place(f, cfg)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	for i, m := range p.Marks {
		if m.Order != i {
			t.Fatalf("mark %d has order %d", i, m.Order)
		}
	}
}
