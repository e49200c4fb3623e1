package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// Config carries every tunable of the service. All values come from the
// environment with development defaults, so a bare `go run ./cmd/server`
// starts against a local SQLite file.
type Config struct {
	Port       int
	DBType     string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	UploadDir     string
	MaxUploadSize int64

	// Analysis defaults, overridable per request.
	FPSSample    float64
	MotionThresh float64
	MinBlob      int
	MinStreakSec float64
	ROI          [4]int // x, y, w, h; all zero means full frame

	CurveStepSec   int
	RollupSchedule string
}

func Load() *Config {
	return &Config{
		Port:       envInt("PORT", 8080),
		DBType:     env("DB_TYPE", "sqlite"),
		DBHost:     env("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBUser:     env("DB_USER", "wheeltrack"),
		DBPassword: env("DB_PASSWORD", "wheeltrack_dev"),
		DBName:     env("DB_NAME", "wheeltrack"),
		SQLitePath: env("SQLITE_PATH", "./wheeltrack.db"),

		UploadDir:     env("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: int64(envInt("MAX_UPLOAD_SIZE", 100<<20)),

		FPSSample:    envFloat("FPS_SAMPLE", 1.0),
		MotionThresh: envFloat("MOTION_THRESH", 0.1),
		MinBlob:      envInt("MIN_BLOB", 1),
		MinStreakSec: envFloat("MIN_STREAK_SEC", 1.0),
		ROI:          envROI("ROI"),

		CurveStepSec:   envInt("CURVE_STEP_SEC", 60),
		RollupSchedule: env("ROLLUP_SCHEDULE", "0 3 * * *"),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := cast.ToFloat64E(v); err == nil {
			return f
		}
	}
	return fallback
}

// envROI parses "x,y,w,h". Missing or malformed values fall back to the
// zero ROI, which the sampler treats as the full frame.
func envROI(key string) [4]int {
	v := os.Getenv(key)
	if v == "" {
		return [4]int{}
	}
	roi, err := ParseROI(v)
	if err != nil {
		return [4]int{}
	}
	return roi
}

// ParseROI parses a comma-separated "x,y,w,h" region string.
func ParseROI(s string) ([4]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return [4]int{}, fmt.Errorf("expected 4 comma-separated values, got %d", len(parts))
	}

	var roi [4]int
	for i, p := range parts {
		n, err := cast.ToIntE(strings.TrimSpace(p))
		if err != nil {
			return [4]int{}, fmt.Errorf("invalid ROI component %q: %w", p, err)
		}
		roi[i] = n
	}
	return roi, nil
}
