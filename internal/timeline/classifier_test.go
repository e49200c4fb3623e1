package timeline

import "testing"

func TestThresholdDetector_BothConditionsRequired(t *testing.T) {
	d, err := NewThresholdDetector(0.1, 50)
	if err != nil {
		t.Fatalf("Failed to create detector: %v", err)
	}

	cases := []struct {
		name   string
		motion float64
		blob   int
		want   bool
	}{
		{"both above", 0.5, 100, true},
		{"both at threshold", 0.1, 50, true},
		{"motion below", 0.05, 100, false},
		{"blob below", 0.5, 49, false},
		{"both below", 0.0, 0, false},
	}

	for _, tc := range cases {
		if got := d.Active(tc.motion, tc.blob); got != tc.want {
			t.Errorf("%s: Active(%v, %d) = %v, want %v", tc.name, tc.motion, tc.blob, got, tc.want)
		}
	}
}

func TestNewThresholdDetector_RejectsNegative(t *testing.T) {
	if _, err := NewThresholdDetector(-0.1, 1); err == nil {
		t.Error("Expected error for negative motion threshold")
	}
	if _, err := NewThresholdDetector(0.1, -1); err == nil {
		t.Error("Expected error for negative blob threshold")
	}
}
