package timeline

import "testing"

func TestCumulativeCurve_NonDecreasing(t *testing.T) {
	intervals := []Interval{
		{Start: 30, Dur: 90},
		{Start: 400, Dur: 50},
	}

	curve := CumulativeCurve(intervals, 600, 60)

	if len(curve) != 11 {
		t.Fatalf("Expected 11 grid points, got %d", len(curve))
	}
	for i := 1; i < len(curve); i++ {
		if curve[i] < curve[i-1] {
			t.Errorf("Curve decreases at %d: %v -> %v", i, curve[i-1], curve[i])
		}
	}
}

func TestCumulativeCurve_FullStepApproximation(t *testing.T) {
	// A 90s interval starting at 30 touches cells 0 and 1, credited a full
	// step each: the documented over-count of at most one step.
	curve := CumulativeCurve([]Interval{{Start: 30, Dur: 90}}, 300, 60)

	if curve[len(curve)-1] != 120 {
		t.Errorf("Expected final cumulative 120 (two full steps), got %v", curve[len(curve)-1])
	}
}

func TestCumulativeCurve_ClipsToMax(t *testing.T) {
	curve := CumulativeCurve([]Interval{{Start: 100, Dur: 10000}}, 300, 60)

	// Clipped end is 300, cells 1..4 credited.
	if curve[len(curve)-1] != 240 {
		t.Errorf("Expected 240 after clipping, got %v", curve[len(curve)-1])
	}
}

func TestCumulativeCurve_SkipsDegenerate(t *testing.T) {
	curve := CumulativeCurve([]Interval{{Start: 500, Dur: 0}}, 300, 60)
	if curve[len(curve)-1] != 0 {
		t.Errorf("Interval past max or with zero duration must not contribute, got %v", curve[len(curve)-1])
	}
}

func TestAverageCurves(t *testing.T) {
	a := []float64{0, 60, 120}
	b := []float64{0, 0, 60}

	avg := AverageCurves([][]float64{a, b})

	want := []float64{0, 30, 90}
	for i, w := range want {
		if avg[i] != w {
			t.Errorf("Point %d: expected %v, got %v", i, w, avg[i])
		}
	}
}

func TestAverageCurves_Empty(t *testing.T) {
	if avg := AverageCurves(nil); avg != nil {
		t.Errorf("Expected nil for zero days, got %v", avg)
	}
}
