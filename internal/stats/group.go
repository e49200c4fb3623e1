package stats

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"

	"github.com/opetryk/wheeltrack/internal/timeline"
)

// DayFilePattern matches persisted day timeline files in a group folder.
const DayFilePattern = "*_wheel_times.csv"

// DaySummaryRow is one day's line in the group summary table.
type DaySummaryRow struct {
	Date          string  `json:"date"`
	TotalSec      int64   `json:"total_running_time_s"`
	TotalMin      float64 `json:"total_running_time_min"`
	Episodes      int     `json:"episodes"`
	AvgEpisodeSec float64 `json:"avg_episode_duration_s"`
	LongestSec    int64   `json:"longest_episode_s"`
}

// SessionRow is one ACTIVE episode tagged with its day.
type SessionRow struct {
	Date        string `json:"date"`
	StartSec    int64  `json:"start_sec"`
	EndSec      int64  `json:"end_sec"`
	DurationSec int64  `json:"duration_seconds"`
}

// HourlyRow is one (day, hour) cell of the hourly activity table.
type HourlyRow struct {
	Date          string `json:"date"`
	Hour          int    `json:"hour"`
	ActiveSeconds int64  `json:"active_seconds"`
}

// GroupResult holds everything derived from one recording group (condition):
// the ordered daily summary, the concatenated sessions and hourly tables, and
// the longest timeline seen, which fixes the group's hour-bin horizon.
type GroupResult struct {
	Name       string          `json:"name"`
	Daily      []DaySummaryRow `json:"daily"`
	Sessions   []SessionRow    `json:"sessions"`
	Hourly     []HourlyRow     `json:"hourly"`
	MaxSeconds int64           `json:"max_seconds"`

	// Skipped lists day files that failed to load. Their days are absent
	// from the tables; the rest of the group is unaffected.
	Skipped []string `json:"skipped,omitempty"`
}

func (g GroupResult) Empty() bool {
	return len(g.Daily) == 0
}

// Day is one day's timeline rows, ready for aggregation.
type Day struct {
	Date string
	Rows []DayRow
}

// ProcessFolder loads every day timeline file in dir and aggregates the
// group tables. An empty folder yields an empty result, not an error; a
// malformed file fails only its own day. ProcessFolder errors only when
// files were present but none loaded.
func ProcessFolder(dir, name string) (GroupResult, error) {
	result := GroupResult{Name: name}

	files, err := filepath.Glob(filepath.Join(dir, DayFilePattern))
	if err != nil {
		return result, fmt.Errorf("globbing %s: %w", dir, err)
	}
	if len(files) == 0 {
		log.Printf("[STATS] No day files in %s", dir)
		return result, nil
	}
	sort.Strings(files)

	var (
		days    []Day
		skipped []string
	)
	for _, path := range files {
		rows, err := LoadDayFile(path)
		if err != nil {
			log.Printf("[STATS] Skipping %s: %v", path, err)
			skipped = append(skipped, path)
			continue
		}
		days = append(days, Day{Date: DayID(path), Rows: rows})
	}
	if len(days) == 0 {
		result.Skipped = skipped
		return result, fmt.Errorf("no usable day files in %s (%d skipped)", dir, len(skipped))
	}

	result = BuildGroup(name, days)
	result.Skipped = skipped
	return result, nil
}

// BuildGroup aggregates per-day timeline rows into the group tables. It is
// the shared core behind ProcessFolder and the service's database rollup.
func BuildGroup(name string, days []Day) GroupResult {
	result := GroupResult{Name: name}

	for _, day := range days {
		var (
			total    int64
			episodes int
			longest  int64
			dayMax   int64
		)
		for _, row := range day.Rows {
			if row.EndSec > dayMax {
				dayMax = row.EndSec
			}
			if row.State != timeline.Active {
				continue
			}
			total += row.DurationSec
			episodes++
			if row.DurationSec > longest {
				longest = row.DurationSec
			}
			result.Sessions = append(result.Sessions, SessionRow{
				Date:        day.Date,
				StartSec:    row.StartSec,
				EndSec:      row.EndSec,
				DurationSec: row.DurationSec,
			})
		}
		if dayMax > result.MaxSeconds {
			result.MaxSeconds = dayMax
		}

		var avg float64
		if episodes > 0 {
			avg = float64(total) / float64(episodes)
		}
		result.Daily = append(result.Daily, DaySummaryRow{
			Date:          day.Date,
			TotalSec:      total,
			TotalMin:      float64(total) / 60.0,
			Episodes:      episodes,
			AvgEpisodeSec: avg,
			LongestSec:    longest,
		})
	}

	sort.Slice(result.Daily, func(i, j int) bool {
		return result.Daily[i].Date < result.Daily[j].Date
	})

	// Hour bins share one horizon across the group so days compare
	// hour-aligned.
	hours := timeline.HorizonHours(float64(result.MaxSeconds))
	for _, day := range days {
		bins := make([]float64, hours)
		for _, row := range day.Rows {
			if row.State != timeline.Active {
				continue
			}
			timeline.AddIntervalToBins(float64(row.StartSec), float64(row.DurationSec), bins)
		}
		for hr, sec := range bins {
			result.Hourly = append(result.Hourly, HourlyRow{
				Date:          day.Date,
				Hour:          hr,
				ActiveSeconds: int64(sec),
			})
		}
	}
	sort.Slice(result.Hourly, func(i, j int) bool {
		if result.Hourly[i].Date != result.Hourly[j].Date {
			return result.Hourly[i].Date < result.Hourly[j].Date
		}
		return result.Hourly[i].Hour < result.Hourly[j].Hour
	})

	return result
}

// CurvePoint is one grid point of the averaged cumulative activity curve.
type CurvePoint struct {
	TSec      int64   `json:"t_sec"`
	AvgCumSec float64 `json:"avg_cum_sec"`
}

// AvgCumulativeCurve averages each day's cumulative active-time curve over
// [0, maxSeconds] sampled every step seconds. Zero sessions yield an empty
// series.
func AvgCumulativeCurve(sessions []SessionRow, maxSeconds, step int64) []CurvePoint {
	if len(sessions) == 0 || step <= 0 {
		return nil
	}

	byDay := map[string][]timeline.Interval{}
	for _, s := range sessions {
		byDay[s.Date] = append(byDay[s.Date], timeline.Interval{
			Start: float64(s.StartSec),
			Dur:   float64(s.DurationSec),
		})
	}

	curves := make([][]float64, 0, len(byDay))
	for _, intervals := range byDay {
		curves = append(curves, timeline.CumulativeCurve(intervals, maxSeconds, step))
	}
	avg := timeline.AverageCurves(curves)

	points := make([]CurvePoint, len(avg))
	for i, v := range avg {
		points[i] = CurvePoint{TSec: int64(i) * step, AvgCumSec: v}
	}
	return points
}
