package stats

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrEmptyGroup is returned when a comparison side has no usable days.
var ErrEmptyGroup = errors.New("group has no days")

// GroupStats are the per-condition aggregates used for comparison.
type GroupStats struct {
	Name               string  `json:"name"`
	Days               int     `json:"days"`
	TotalMin           float64 `json:"total_min"`
	MeanDailySec       float64 `json:"mean_daily_sec"`
	MeanDailyMin       float64 `json:"mean_daily_min"`
	MeanEpisodeSec     float64 `json:"mean_episode_sec"`
	MeanEpisodesPerDay float64 `json:"mean_episodes_per_day"`
}

// Comparison contrasts two conditions. DiffPct is NaN when the second
// condition's total is zero; the difference is then undefined, not an error.
type Comparison struct {
	A       GroupStats `json:"a"`
	B       GroupStats `json:"b"`
	DiffMin float64    `json:"diff_min"`
	DiffPct float64    `json:"diff_pct"`
}

func statsOf(g GroupResult) GroupStats {
	s := GroupStats{Name: g.Name, Days: len(g.Daily)}

	var totalSec int64
	var episodeSum int
	var avgEpisodeSum float64
	for _, d := range g.Daily {
		totalSec += d.TotalSec
		episodeSum += d.Episodes
		avgEpisodeSum += d.AvgEpisodeSec
	}
	s.TotalMin = float64(totalSec) / 60.0

	if s.Days > 0 {
		s.MeanDailySec = float64(totalSec) / float64(s.Days)
		s.MeanDailyMin = s.MeanDailySec / 60.0
		s.MeanEpisodeSec = avgEpisodeSum / float64(s.Days)
		s.MeanEpisodesPerDay = float64(episodeSum) / float64(s.Days)
	}
	return s
}

// Compare builds the cross-condition summary. Either side being empty is a
// hard stop: comparing against no data would only produce NaN-laden output.
func Compare(a, b GroupResult) (Comparison, error) {
	if a.Empty() {
		return Comparison{}, fmt.Errorf("condition %q: %w", a.Name, ErrEmptyGroup)
	}
	if b.Empty() {
		return Comparison{}, fmt.Errorf("condition %q: %w", b.Name, ErrEmptyGroup)
	}

	c := Comparison{A: statsOf(a), B: statsOf(b)}
	c.DiffMin = c.A.TotalMin - c.B.TotalMin
	if c.B.TotalMin > 0 {
		c.DiffPct = c.DiffMin / c.B.TotalMin * 100.0
	} else {
		c.DiffPct = math.NaN()
	}
	return c, nil
}

// FormatComparison renders the comparison as a plain-text report.
func FormatComparison(c Comparison) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== ACTIVITY ANALYSIS REPORT ===\n")
	fmt.Fprintf(&b, "Days (%s): %d\n", c.A.Name, c.A.Days)
	fmt.Fprintf(&b, "Days (%s): %d\n", c.B.Name, c.B.Days)

	fmt.Fprintf(&b, "\n--- Total Running Time ---\n")
	fmt.Fprintf(&b, "%-12s %.2f min (%.2f h)\n", c.A.Name+":", c.A.TotalMin, c.A.TotalMin/60)
	fmt.Fprintf(&b, "%-12s %.2f min (%.2f h)\n", c.B.Name+":", c.B.TotalMin, c.B.TotalMin/60)

	sign := "+"
	if c.DiffMin < 0 {
		sign = "-"
	}
	if math.IsNaN(c.DiffPct) {
		fmt.Fprintf(&b, "Difference:  %s%.2f min (n/a)\n", sign, math.Abs(c.DiffMin))
	} else {
		fmt.Fprintf(&b, "Difference:  %s%.2f min (%s%.2f%%)\n", sign, math.Abs(c.DiffMin), sign, math.Abs(c.DiffPct))
	}

	fmt.Fprintf(&b, "\n--- Averages ---\n")
	fmt.Fprintf(&b, "Per-day running (%s): %.2f min/day\n", c.A.Name, c.A.MeanDailyMin)
	fmt.Fprintf(&b, "Per-day running (%s): %.2f min/day\n", c.B.Name, c.B.MeanDailyMin)
	fmt.Fprintf(&b, "Avg episode (%s): %.2f s\n", c.A.Name, c.A.MeanEpisodeSec)
	fmt.Fprintf(&b, "Avg episode (%s): %.2f s\n", c.B.Name, c.B.MeanEpisodeSec)
	fmt.Fprintf(&b, "Episodes/day (%s): %.2f\n", c.A.Name, c.A.MeanEpisodesPerDay)
	fmt.Fprintf(&b, "Episodes/day (%s): %.2f\n", c.B.Name, c.B.MeanEpisodesPerDay)

	return b.String()
}
