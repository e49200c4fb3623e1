package timeline

import (
	"math"
	"testing"
)

func samplesFromStates(states []bool) []Sample {
	samples := make([]Sample, len(states))
	for i, active := range states {
		samples[i] = Sample{T: float64(i), Active: active}
	}
	return samples
}

func TestSegment_RunLengthEncoding(t *testing.T) {
	samples := samplesFromStates([]bool{false, true, true, false})

	episodes := Segment(samples)

	want := []Episode{
		{Start: 0, End: 1, State: Inactive},
		{Start: 1, End: 3, State: Active},
		{Start: 3, End: 3, State: Inactive},
	}
	if len(episodes) != len(want) {
		t.Fatalf("Expected %d episodes, got %d: %v", len(want), len(episodes), episodes)
	}
	for i, w := range want {
		if episodes[i] != w {
			t.Errorf("Episode %d: expected %+v, got %+v", i, w, episodes[i])
		}
	}
}

func TestSegment_Empty(t *testing.T) {
	if eps := Segment(nil); len(eps) != 0 {
		t.Errorf("Expected no episodes for empty input, got %v", eps)
	}
}

func TestSegment_SingleSample(t *testing.T) {
	episodes := Segment([]Sample{{T: 5, Active: true}})

	if len(episodes) != 1 {
		t.Fatalf("Expected 1 episode, got %d", len(episodes))
	}
	e := episodes[0]
	if e.Start != 5 || e.End != 5 || e.State != Active {
		t.Errorf("Expected degenerate (5,5,ACTIVE), got %+v", e)
	}
	if e.Duration() != 0 {
		t.Errorf("Expected zero duration, got %v", e.Duration())
	}
}

func TestSegment_Contiguity(t *testing.T) {
	states := []bool{true, true, false, true, false, false, true, false, true, true, false}
	samples := samplesFromStates(states)

	episodes := Segment(samples)

	if episodes[0].Start != samples[0].T {
		t.Errorf("First episode starts at %v, expected %v", episodes[0].Start, samples[0].T)
	}
	if episodes[len(episodes)-1].End != samples[len(samples)-1].T {
		t.Errorf("Last episode ends at %v, expected %v", episodes[len(episodes)-1].End, samples[len(samples)-1].T)
	}
	for i := 0; i < len(episodes)-1; i++ {
		if episodes[i].End != episodes[i+1].Start {
			t.Errorf("Gap between episode %d and %d: end=%v next start=%v",
				i, i+1, episodes[i].End, episodes[i+1].Start)
		}
		if episodes[i].State == episodes[i+1].State {
			t.Errorf("Raw episodes %d and %d share state %v", i, i+1, episodes[i].State)
		}
	}
}

func TestApplyMinStreak_KeepsLongEnough(t *testing.T) {
	samples := samplesFromStates([]bool{false, true, true, false})
	episodes := ApplyMinStreak(Segment(samples), 2)

	if episodes[1].State != Active {
		t.Errorf("Episode of duration 2 with min streak 2 should stay ACTIVE, got %v", episodes[1].State)
	}
}

func TestApplyMinStreak_ReclassifiesShort(t *testing.T) {
	samples := samplesFromStates([]bool{false, true, true, false})
	episodes := ApplyMinStreak(Segment(samples), 3)

	if episodes[1].State != Inactive {
		t.Errorf("Episode of duration 2 with min streak 3 should become INACTIVE, got %v", episodes[1].State)
	}
	// Boundaries never move, only labels.
	if episodes[1].Start != 1 || episodes[1].End != 3 {
		t.Errorf("Filter moved boundaries: %+v", episodes[1])
	}
}

func TestApplyMinStreak_NeverTouchesInactive(t *testing.T) {
	episodes := []Episode{
		{Start: 0, End: 0.5, State: Inactive},
		{Start: 0.5, End: 1, State: Active},
	}
	cleaned := ApplyMinStreak(episodes, 100)

	if cleaned[0].State != Inactive {
		t.Errorf("INACTIVE episode must never be filtered")
	}
	if cleaned[1].State != Inactive {
		t.Errorf("Short ACTIVE episode should be reclassified")
	}
	// Input untouched.
	if episodes[1].State != Active {
		t.Errorf("ApplyMinStreak mutated its input")
	}
}

func TestApplyMinStreak_LoneActiveSample(t *testing.T) {
	// A lone ACTIVE sample is a zero-duration episode: filtered out by any
	// positive threshold, preserved by a zero threshold.
	eps := Segment([]Sample{{T: 0, Active: true}})

	if got := ApplyMinStreak(eps, 1)[0].State; got != Inactive {
		t.Errorf("Zero-duration ACTIVE with positive threshold: expected INACTIVE, got %v", got)
	}
	if got := ApplyMinStreak(eps, 0)[0].State; got != Active {
		t.Errorf("Zero-duration ACTIVE with zero threshold: expected ACTIVE, got %v", got)
	}
}

func TestApplyMinStreak_DoesNotCoalesce(t *testing.T) {
	// false,true,false pattern where the ACTIVE middle is too short leaves
	// three episodes, two adjacent INACTIVE ones among them.
	samples := samplesFromStates([]bool{false, true, false, false})
	cleaned := ApplyMinStreak(Segment(samples), 5)

	if len(cleaned) != 3 {
		t.Fatalf("Expected 3 episodes after filtering, got %d", len(cleaned))
	}
	for i, e := range cleaned {
		if e.State != Inactive {
			t.Errorf("Episode %d expected INACTIVE, got %v", i, e.State)
		}
	}
}

func TestCoalesce(t *testing.T) {
	samples := samplesFromStates([]bool{false, true, false, false})
	merged := Coalesce(ApplyMinStreak(Segment(samples), 5))

	if len(merged) != 1 {
		t.Fatalf("Expected one merged episode, got %d: %v", len(merged), merged)
	}
	if merged[0].Start != 0 || merged[0].End != 3 || merged[0].State != Inactive {
		t.Errorf("Expected (0,3,INACTIVE), got %+v", merged[0])
	}
}

func TestSegment_Idempotence(t *testing.T) {
	// Expanding episodes back to per-second samples and re-segmenting must
	// reproduce the same (coalesced) boundaries.
	samples := samplesFromStates([]bool{false, true, true, true, false, false, true, true, false})
	episodes := Coalesce(ApplyMinStreak(Segment(samples), 2))

	var rebuilt []Sample
	for _, e := range episodes {
		for s := e.Start; s < e.End; s++ {
			rebuilt = append(rebuilt, Sample{T: s, Active: e.State == Active})
		}
	}
	last := episodes[len(episodes)-1]
	rebuilt = append(rebuilt, Sample{T: last.End, Active: last.State == Active})

	again := Coalesce(Segment(rebuilt))
	if len(again) != len(episodes) {
		t.Fatalf("Re-segmentation changed episode count: %d vs %d", len(again), len(episodes))
	}
	for i := range episodes {
		if math.Abs(again[i].Start-episodes[i].Start) > 1e-9 ||
			math.Abs(again[i].End-episodes[i].End) > 1e-9 ||
			again[i].State != episodes[i].State {
			t.Errorf("Episode %d drifted: %+v vs %+v", i, again[i], episodes[i])
		}
	}
}
