package stats

import (
	"fmt"
	"math"
	"os"
	"strings"
)

// DayReport collects everything the per-day text summary prints.
type DayReport struct {
	VideoFile      string
	DurationSec    float64
	FPSSample      float64
	FrameStep      int
	ROI            [4]int // x, y, w, h
	MotionThresh   float64
	MinBlob        int
	MinStreakSec   float64
	TotalActiveSec float64
}

// FrameStep is how many source frames lie between consecutive samples at
// the requested sampling rate, rounded to the nearest whole frame and
// never below 1.
func FrameStep(srcFPS, fpsSample float64) int {
	if srcFPS <= 0 || fpsSample <= 0 {
		return 1
	}
	step := int(math.Round(srcFPS / fpsSample))
	if step < 1 {
		return 1
	}
	return step
}

// ActiveFraction is the share of the recording spent active, 0 when the
// recording has no duration.
func (r DayReport) ActiveFraction() float64 {
	if r.DurationSec <= 0 {
		return 0
	}
	return r.TotalActiveSec / r.DurationSec
}

// FormatDayReport renders the plain-text per-day summary artifact.
func FormatDayReport(r DayReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Video file: %s\n", r.VideoFile)
	fmt.Fprintf(&b, "Video duration: %s (%.1f sec)\n", FormatHMS(int64(r.DurationSec)), r.DurationSec)
	fmt.Fprintf(&b, "Sampling: %g fps (step=%d)\n", r.FPSSample, r.FrameStep)
	fmt.Fprintf(&b, "ROI: x=%d, y=%d, w=%d, h=%d\n", r.ROI[0], r.ROI[1], r.ROI[2], r.ROI[3])
	fmt.Fprintf(&b, "Parameters: motion_thresh=%g, min_blob=%d, min_streak_sec=%g\n\n",
		r.MotionThresh, r.MinBlob, r.MinStreakSec)
	fmt.Fprintf(&b, "Total time in wheel: %s (%.1f sec)\n",
		FormatHMS(int64(r.TotalActiveSec)), r.TotalActiveSec)
	fmt.Fprintf(&b, "Percentage of time in wheel: %.2f%%\n", r.ActiveFraction()*100)

	return b.String()
}

// WriteDayReport writes the per-day summary to path.
func WriteDayReport(path string, r DayReport) error {
	if err := os.WriteFile(path, []byte(FormatDayReport(r)), 0644); err != nil {
		return fmt.Errorf("writing day report: %w", err)
	}
	return nil
}
