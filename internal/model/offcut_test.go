package model

import (
	"math"
	"testing"
)

func offcutTestPlan() CutPlan {
	return CutPlan{
		Capacity: 100,
		Rolls:    []Roll{{40, 50}, {90}, {100}, {20, 20}},
	}
}

func TestDetectOffcuts(t *testing.T) {
	offcuts := DetectOffcuts(offcutTestPlan(), 10, 0)

	if len(offcuts) != 3 {
		t.Fatalf("expected 3 offcuts, got %d", len(offcuts))
	}
	// widest first
	if offcuts[0].Width != 60 || offcuts[0].RollIndex != 3 {
		t.Errorf("expected 60 wide offcut from roll 3, got %+v", offcuts[0])
	}
	if offcuts[2].Width != 10 || offcuts[2].RollIndex != 1 {
		t.Errorf("expected 10 wide offcut from roll 1, got %+v", offcuts[2])
	}
	for _, o := range offcuts {
		if o.ID == "" {
			t.Error("expected offcut ID")
		}
		if o.Price != 0 {
			t.Errorf("expected no price, got %g", o.Price)
		}
	}
}

func TestDetectOffcutsNarrowRemnantIgnored(t *testing.T) {
	offcuts := DetectOffcuts(offcutTestPlan(), 11, 0)
	if len(offcuts) != 1 {
		t.Errorf("expected 1 offcut, got %d", len(offcuts))
	}
}

func TestDetectOffcutsFullRollsOnly(t *testing.T) {
	plan := CutPlan{Capacity: 10, Rolls: []Roll{{4, 6}, {10}}}
	if offcuts := DetectOffcuts(plan, 0, 0); len(offcuts) != 0 {
		t.Errorf("expected no offcuts from full rolls, got %v", offcuts)
	}
}

func TestDetectOffcutsPricingProportional(t *testing.T) {
	offcuts := DetectOffcuts(offcutTestPlan(), 10, 50)
	if math.Abs(offcuts[0].Price-30) > 1e-9 {
		t.Errorf("expected price 30 for 60%% of a 50 roll, got %g", offcuts[0].Price)
	}
}

func TestTotalOffcutWidth(t *testing.T) {
	offcuts := DetectOffcuts(offcutTestPlan(), 0, 0)
	if total := TotalOffcutWidth(offcuts); total != 80 {
		t.Errorf("expected total 80, got %g", total)
	}
	if TotalOffcutWidth(nil) != 0 {
		t.Error("expected zero for no offcuts")
	}
}
