package matching

import (
	"math"
	"testing"
	"time"

	"github.com/portlink/streetturn/core/model"
)

func TestDistanceScoreMonotonic(t *testing.T) {
	prev := DistanceScore(0)
	if prev != 40 {
		t.Fatalf("expected 40 at 0 km got %v", prev)
	}
	for d := 0.5; d <= 150; d += 0.5 {
		s := DistanceScore(d)
		if s > prev {
			t.Fatalf("distance score increased at %v km", d)
		}
		if d >= 100 && s != 0 {
			t.Fatalf("expected 0 at %v km got %v", d, s)
		}
		prev = s
	}
}

func TestTimeScoreMonotonic(t *testing.T) {
	prev := TimeScore(0)
	if prev != 20 {
		t.Fatalf("expected 20 at 0h got %v", prev)
	}
	for h := 0.25; h <= 120; h += 0.25 {
		s := TimeScore(h)
		if s > prev {
			t.Fatalf("time score increased at %vh", h)
		}
		if h >= 72 && s != 0 {
			t.Fatalf("expected 0 at %vh got %v", h, s)
		}
		prev = s
	}
}

func TestComplexityScore(t *testing.T) {
	c := model.DropOffContainer{TruckingCompanyID: "t1", ShippingLineID: "l1"}
	cases := []struct {
		trucker, line string
		align         Alignment
		want          float64
	}{
		{"t1", "l1", AlignmentInternal, 15},
		{"t1", "l2", AlignmentSameTrucker, 10},
		{"t2", "l1", AlignmentSameLine, 8},
		{"t2", "l2", AlignmentMarketplace, 5},
	}
	for _, tc := range cases {
		a := AlignmentOf(c, model.PickupBooking{TruckingCompanyID: tc.trucker, ShippingLineID: tc.line})
		if a != tc.align {
			t.Fatalf("%s/%s: expected %v got %v", tc.trucker, tc.line, tc.align, a)
		}
		if got := ComplexityScore(a); got != tc.want {
			t.Fatalf("%v: expected %v got %v", a, tc.want, got)
		}
	}
}

func TestQualityScore(t *testing.T) {
	if QualityScore(true) != 15 || QualityScore(false) != 5 {
		t.Fatalf("unexpected quality scores")
	}
}

func TestTimeGapHoursAbsolute(t *testing.T) {
	a := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	b := a.Add(-30 * time.Hour)
	if got := TimeGapHours(a, b); math.Abs(got-30) > 1e-9 {
		t.Fatalf("expected 30 got %v", got)
	}
}

func TestClassifyTiers(t *testing.T) {
	cases := []struct {
		name  string
		total float64
		align Alignment
		match bool
		dist  float64
		gap   float64
		want  Scenario
	}{
		{"internal on road", 90, AlignmentInternal, true, 3, 1, ScenarioInternalStreetTurn},
		{"internal depot", 90, AlignmentInternal, true, 5, 1, ScenarioInternalDepotTurn},
		{"boundary 85 marketplace", 85, AlignmentSameLine, true, 10, 1, ScenarioMarketplaceOptimal},
		{"vas", 84.99, AlignmentInternal, false, 3, 1, ScenarioVAS},
		{"relocation", 70, AlignmentMarketplace, true, 10, 25, ScenarioRelocation},
		{"gap exactly 24", 75, AlignmentMarketplace, true, 10, 24, ScenarioMarketplaceEfficient},
		{"complex", 50, AlignmentInternal, true, 1, 1, ScenarioComplex},
		{"difficult", 49.99, AlignmentInternal, true, 1, 1, ScenarioDifficult},
	}
	for _, tc := range cases {
		if got := Classify(tc.total, tc.align, tc.match, tc.dist, tc.gap); got != tc.want {
			t.Errorf("%s: expected %q got %q", tc.name, tc.want, got)
		}
	}
}

func TestEstimateCostsFees(t *testing.T) {
	est := EstimateCosts(10, 100, false)
	if len(est.Fees) != 3 || len(est.RequiredActions) != 3 {
		t.Fatalf("expected 3 fees and actions, got %+v", est)
	}
	if est.Fees[2].Description != "storage fee (2 days)" || est.Fees[2].Amount != 200000 {
		t.Fatalf("unexpected storage fee %+v", est.Fees[2])
	}
	if est.BaselineCost != 150000 || est.CostSaving != 0 {
		t.Fatalf("unexpected saving %+v", est)
	}
	if math.Abs(est.CO2SavingKg-8) > 1e-9 {
		t.Fatalf("expected 8 kg got %v", est.CO2SavingKg)
	}

	est = EstimateCosts(80, 2, true)
	if len(est.Fees) != 0 || est.CostSaving != 1200000 {
		t.Fatalf("expected full saving, got %+v", est)
	}
	if est.Fees == nil || est.RequiredActions == nil {
		t.Fatalf("expected empty, non-nil slices")
	}

	// 750000 baseline against 800000 of fees.
	est = EstimateCosts(50, 30, false)
	if est.CostSaving != 0 {
		t.Fatalf("saving must be clamped at zero, got %v", est.CostSaving)
	}

	est = EstimateCosts(100, 72, true)
	if len(est.Fees) != 1 {
		t.Fatalf("no storage fee expected at exactly 72h, got %+v", est.Fees)
	}
	est = EstimateCosts(100, 73, true)
	if len(est.Fees) != 2 || est.Fees[1].Description != "storage fee (1 days)" || est.Fees[1].Amount != 100000 {
		t.Fatalf("expected one storage day, got %+v", est.Fees)
	}
	if est.CostSaving != 1500000-400000 {
		t.Fatalf("unexpected saving %v", est.CostSaving)
	}
}
