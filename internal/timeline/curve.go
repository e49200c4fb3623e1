package timeline

// Interval is one ACTIVE stretch of a day's timeline, in seconds from
// recording start.
type Interval struct {
	Start float64
	Dur   float64
}

// CurveGridSize returns the number of grid points for a curve over
// [0, maxSeconds] sampled every step seconds, endpoints included.
func CurveGridSize(maxSeconds, step int64) int {
	return int(maxSeconds/step) + 1
}

// CumulativeCurve builds one day's cumulative active-time curve on a uniform
// step grid. Each interval credits a full step to every grid cell it touches
// in [floor(start/step), floor(end/step)); partial cells are rounded up to a
// whole step, a deliberate approximation that over-counts by at most one step
// per interval in exchange for O(cells) cost. The result is non-decreasing.
func CumulativeCurve(intervals []Interval, maxSeconds, step int64) []float64 {
	n := CurveGridSize(maxSeconds, step)
	active := make([]float64, n)

	for _, iv := range intervals {
		start := int64(iv.Start)
		end := start + int64(iv.Dur)
		if end > maxSeconds {
			end = maxSeconds
		}
		if end <= start {
			continue
		}
		sIdx := start / step
		eIdx := end / step
		for i := sIdx; i < eIdx && i < int64(n); i++ {
			active[i] += float64(step)
		}
	}

	cum := make([]float64, n)
	var run float64
	for i, a := range active {
		run += a
		cum[i] = run
	}
	return cum
}

// AverageCurves averages per-day curves elementwise. All curves must share
// one grid; zero days yields nil.
func AverageCurves(curves [][]float64) []float64 {
	if len(curves) == 0 {
		return nil
	}

	avg := make([]float64, len(curves[0]))
	for _, c := range curves {
		for i, v := range c {
			avg[i] += v
		}
	}
	for i := range avg {
		avg[i] /= float64(len(curves))
	}
	return avg
}
