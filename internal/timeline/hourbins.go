package timeline

import "math"

// SecondsPerBin is the fixed bucket width for hourly activity profiles.
const SecondsPerBin = 3600

// HorizonHours returns the number of hour bins needed to cover maxSeconds,
// never less than one.
func HorizonHours(maxSeconds float64) int {
	h := int(math.Ceil(maxSeconds / SecondsPerBin))
	if h < 1 {
		return 1
	}
	return h
}

// HourBins distributes each ACTIVE episode's duration into hour-sized buckets,
// splitting exactly at bucket boundaries. The returned slice has exactly
// horizon entries; any part of an episode past the horizon is dropped.
func HourBins(episodes []Episode, horizon int) []float64 {
	bins := make([]float64, horizon)
	for _, e := range episodes {
		if e.State != Active {
			continue
		}
		AddIntervalToBins(e.Start, e.Duration(), bins)
	}
	return bins
}

// AddIntervalToBins adds dur seconds starting at start into bins of
// SecondsPerBin width. Every second lands in exactly one bin, so the sum of
// allocations equals dur whenever the interval lies inside the horizon.
func AddIntervalToBins(start, dur float64, bins []float64) {
	remaining := dur
	cur := start
	for remaining > 0 {
		idx := int(cur / SecondsPerBin)
		binEnd := float64(idx+1) * SecondsPerBin
		spill := math.Min(remaining, binEnd-cur)
		if idx >= 0 && idx < len(bins) {
			bins[idx] += spill
		}
		remaining -= spill
		cur += spill
	}
}
