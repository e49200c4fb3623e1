// report aggregates two condition folders of day timeline CSVs into group
// tables, writes them as CSV artifacts and prints the comparison report.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/opetryk/wheeltrack/internal/stats"
)

func main() {
	var (
		dirA    = flag.String("a", "", "Folder with the first condition's day files (required)")
		dirB    = flag.String("b", "", "Folder with the second condition's day files (required)")
		nameA   = flag.String("a-name", "", "First condition name (default: folder name)")
		nameB   = flag.String("b-name", "", "Second condition name (default: folder name)")
		outDir  = flag.String("out", ".", "Directory for the CSV artifacts")
		stepSec = flag.Int64("curve-step", 60, "Cumulative curve step in seconds")
	)
	flag.Parse()

	if *dirA == "" || *dirB == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *nameA == "" {
		*nameA = filepath.Base(*dirA)
	}
	if *nameB == "" {
		*nameB = filepath.Base(*dirB)
	}

	groupA, err := stats.ProcessFolder(*dirA, *nameA)
	if err != nil {
		log.Fatalf("Failed to process %s: %v", *dirA, err)
	}
	groupB, err := stats.ProcessFolder(*dirB, *nameB)
	if err != nil {
		log.Fatalf("Failed to process %s: %v", *dirB, err)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatal("Failed to create output directory:", err)
	}

	// Curves share one horizon so both conditions plot on the same axis.
	maxSeconds := groupA.MaxSeconds
	if groupB.MaxSeconds > maxSeconds {
		maxSeconds = groupB.MaxSeconds
	}

	for _, g := range []stats.GroupResult{groupA, groupB} {
		if err := writeGroupTables(*outDir, g, maxSeconds, *stepSec); err != nil {
			log.Fatalf("Failed to write tables for %s: %v", g.Name, err)
		}
	}

	comparison, err := stats.Compare(groupA, groupB)
	if err != nil {
		log.Fatal("Comparison failed:", err)
	}
	fmt.Print(stats.FormatComparison(comparison))
}

func writeGroupTables(dir string, g stats.GroupResult, maxSeconds, stepSec int64) error {
	daily := make([][]string, 0, len(g.Daily)+1)
	daily = append(daily, []string{
		"date", "total_running_time_s", "total_running_time_min",
		"episodes", "avg_episode_duration_s", "longest_episode_s",
	})
	for _, d := range g.Daily {
		daily = append(daily, []string{
			d.Date,
			strconv.FormatInt(d.TotalSec, 10),
			strconv.FormatFloat(d.TotalMin, 'f', 2, 64),
			strconv.Itoa(d.Episodes),
			strconv.FormatFloat(d.AvgEpisodeSec, 'f', 2, 64),
			strconv.FormatInt(d.LongestSec, 10),
		})
	}
	if err := writeCSV(filepath.Join(dir, g.Name+"_summary.csv"), daily); err != nil {
		return err
	}

	sessions := make([][]string, 0, len(g.Sessions)+1)
	sessions = append(sessions, []string{"date", "start_sec", "end_sec", "duration_seconds"})
	for _, s := range g.Sessions {
		sessions = append(sessions, []string{
			s.Date,
			strconv.FormatInt(s.StartSec, 10),
			strconv.FormatInt(s.EndSec, 10),
			strconv.FormatInt(s.DurationSec, 10),
		})
	}
	if err := writeCSV(filepath.Join(dir, g.Name+"_sessions.csv"), sessions); err != nil {
		return err
	}

	hourly := make([][]string, 0, len(g.Hourly)+1)
	hourly = append(hourly, []string{"date", "hour", "active_seconds"})
	for _, h := range g.Hourly {
		hourly = append(hourly, []string{
			h.Date,
			strconv.Itoa(h.Hour),
			strconv.FormatInt(h.ActiveSeconds, 10),
		})
	}
	if err := writeCSV(filepath.Join(dir, g.Name+"_hourly.csv"), hourly); err != nil {
		return err
	}

	curve := stats.AvgCumulativeCurve(g.Sessions, maxSeconds, stepSec)
	curveRows := make([][]string, 0, len(curve)+1)
	curveRows = append(curveRows, []string{"t_sec", "avg_cum_sec"})
	for _, p := range curve {
		curveRows = append(curveRows, []string{
			strconv.FormatInt(p.TSec, 10),
			strconv.FormatFloat(p.AvgCumSec, 'f', 2, 64),
		})
	}
	return writeCSV(filepath.Join(dir, g.Name+"_curve.csv"), curveRows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
