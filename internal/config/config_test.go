package config

import (
	"testing"

	"github.com/opetryk/wheeltrack/internal/timeline"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.DBType != "sqlite" {
		t.Errorf("Expected default db type sqlite, got %s", cfg.DBType)
	}
	if cfg.FPSSample != 1.0 {
		t.Errorf("Expected default sample rate 1.0, got %f", cfg.FPSSample)
	}
	if cfg.MotionThresh != 0.1 {
		t.Errorf("Expected default motion threshold 0.1, got %f", cfg.MotionThresh)
	}
	if cfg.MinBlob != 1 {
		t.Errorf("Expected default min blob 1, got %d", cfg.MinBlob)
	}
	if cfg.MinStreakSec != 1.0 {
		t.Errorf("Expected default min streak 1.0, got %f", cfg.MinStreakSec)
	}
	if cfg.ROI != [4]int{} {
		t.Errorf("Expected zero ROI by default, got %v", cfg.ROI)
	}
}

func TestLoadDefaultThresholdsReachable(t *testing.T) {
	cfg := Load()

	// Motion scores are medians of absolute byte differences, so 255 is
	// the largest value the sampler can ever emit. A default threshold
	// above that would classify every sample inactive.
	if cfg.MotionThresh > 255 {
		t.Fatalf("Default motion threshold %f exceeds the maximum motion score 255", cfg.MotionThresh)
	}

	detector, err := timeline.NewThresholdDetector(cfg.MotionThresh, cfg.MinBlob)
	if err != nil {
		t.Fatalf("Default thresholds rejected: %v", err)
	}
	if !detector.Active(255, 1<<20) {
		t.Error("Expected maximal motion to classify active with default thresholds")
	}
	if detector.Active(0, 0) {
		t.Error("Expected a still frame to classify inactive with default thresholds")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MOTION_THRESH", "1200.5")
	t.Setenv("ROI", "10, 20, 300, 200")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Port)
	}
	if cfg.MotionThresh != 1200.5 {
		t.Errorf("Expected motion threshold 1200.5, got %f", cfg.MotionThresh)
	}
	if cfg.ROI != [4]int{10, 20, 300, 200} {
		t.Errorf("Expected ROI [10 20 300 200], got %v", cfg.ROI)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("ROI", "1,2,3")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("Expected fallback port 8080, got %d", cfg.Port)
	}
	if cfg.ROI != [4]int{} {
		t.Errorf("Expected zero ROI for malformed value, got %v", cfg.ROI)
	}
}

func TestParseROI(t *testing.T) {
	tests := []struct {
		input   string
		want    [4]int
		wantErr bool
	}{
		{"0,0,640,480", [4]int{0, 0, 640, 480}, false},
		{" 10 , 20 , 30 , 40 ", [4]int{10, 20, 30, 40}, false},
		{"1,2,3", [4]int{}, true},
		{"a,b,c,d", [4]int{}, true},
	}

	for _, tt := range tests {
		got, err := ParseROI(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseROI(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseROI(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseROI(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
