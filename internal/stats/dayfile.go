// Package stats aggregates per-day activity timelines across recording
// groups: loading persisted day files, building daily/session/hourly tables,
// cumulative curves and cross-condition comparisons.
package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/opetryk/wheeltrack/internal/timeline"
)

// State labels used in persisted day timeline files.
const (
	LabelActive   = "IN WHEEL"
	LabelInactive = "NOT IN WHEEL"
)

// DayRow is one episode row of a persisted day timeline file.
type DayRow struct {
	StartSec    int64
	EndSec      int64
	DurationSec int64
	State       timeline.State
}

// BadDayFileError reports a day timeline file that cannot be used.
type BadDayFileError struct {
	File   string
	Reason string
}

func (e *BadDayFileError) Error() string {
	return fmt.Sprintf("bad day file %s: %s", e.File, e.Reason)
}

var durationRe = regexp.MustCompile(`^(?:(\d+)m)?(?:(\d+)s?)?$`)
var digitsRe = regexp.MustCompile(`\D`)

// ParseDuration parses duration strings like "1m 23s", "1m 23", "45s", "3m"
// or a bare integer into seconds. Unparsable or empty values default to 0.
func ParseDuration(val string) int64 {
	s := strings.ToLower(strings.TrimSpace(val))
	s = strings.ReplaceAll(s, "seconds", "s")
	s = strings.ReplaceAll(s, "second", "s")
	s = strings.ReplaceAll(s, "sec", "s")
	s = strings.ReplaceAll(s, "mins", "m")
	s = strings.ReplaceAll(s, "min", "m")
	s = strings.ReplaceAll(s, " ", "")

	if s == "" || s == "0" || s == "s" {
		return 0
	}

	if m := durationRe.FindStringSubmatch(s); m != nil && (m[1] != "" || m[2] != "") {
		var mins, secs int64
		if m[1] != "" {
			mins, _ = strconv.ParseInt(m[1], 10, 64)
		}
		if m[2] != "" {
			secs, _ = strconv.ParseInt(m[2], 10, 64)
		}
		return mins*60 + secs
	}

	digits := digitsRe.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseHMS parses an HH:MM:SS offset from recording start into seconds.
func ParseHMS(hms string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(hms), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM:SS", hms)
	}
	var vals [3]int64
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time %q: %w", hms, err)
		}
		vals[i] = v
	}
	return vals[0]*3600 + vals[1]*60 + vals[2], nil
}

// FormatHMS renders seconds from recording start as HH:MM:SS.
func FormatHMS(sec int64) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}

// FormatDuration renders seconds as "<m>m <s>s", or "<s>s" under a minute.
func FormatDuration(sec int64) string {
	m, s := sec/60, sec%60
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// DayID derives the day identifier from a timeline filename: the leading
// token before the first underscore.
func DayID(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "_"); i >= 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadDayFile reads one persisted day timeline. Required columns are
// start_time, end_time, state and duration (case-insensitive, any order);
// a file missing them fails with BadDayFileError.
func LoadDayFile(path string) ([]DayRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening day file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, &BadDayFileError{File: path, Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &BadDayFileError{File: path, Reason: "empty file"}
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"start_time", "end_time", "state", "duration"} {
		if _, ok := cols[required]; !ok {
			return nil, &BadDayFileError{File: path, Reason: "missing column " + required}
		}
	}

	rows := make([]DayRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		start, err := ParseHMS(rec[cols["start_time"]])
		if err != nil {
			return nil, &BadDayFileError{File: path, Reason: err.Error()}
		}
		end, err := ParseHMS(rec[cols["end_time"]])
		if err != nil {
			return nil, &BadDayFileError{File: path, Reason: err.Error()}
		}

		state := timeline.Inactive
		switch strings.ToUpper(strings.TrimSpace(rec[cols["state"]])) {
		case LabelActive, "ACTIVE":
			state = timeline.Active
		}

		rows = append(rows, DayRow{
			StartSec:    start,
			EndSec:      end,
			DurationSec: ParseDuration(rec[cols["duration"]]),
			State:       state,
		})
	}

	return rows, nil
}

// WriteDayFile persists a day's episode sequence in the timeline file format.
func WriteDayFile(path string, episodes []timeline.Episode) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating day file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"start_time", "end_time", "state", "duration"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range episodes {
		label := LabelInactive
		if e.State == timeline.Active {
			label = LabelActive
		}
		row := []string{
			FormatHMS(int64(e.Start)),
			FormatHMS(int64(e.End)),
			label,
			FormatDuration(int64(e.Duration())),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing day file: %w", err)
	}
	return nil
}
