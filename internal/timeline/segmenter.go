package timeline

// Segment run-length encodes an ordered sample sequence into episodes.
// Each episode starts at its first sample's timestamp and ends at the first
// sample of the next run; the final episode ends at the last sample's
// timestamp, so a single-sample day yields one zero-duration episode.
func Segment(samples []Sample) []Episode {
	if len(samples) == 0 {
		return nil
	}

	episodes := []Episode{}
	curState := stateOf(samples[0].Active)
	start := samples[0].T

	for _, s := range samples[1:] {
		st := stateOf(s.Active)
		if st != curState {
			episodes = append(episodes, Episode{Start: start, End: s.T, State: curState})
			start = s.T
			curState = st
		}
	}
	episodes = append(episodes, Episode{Start: start, End: samples[len(samples)-1].T, State: curState})

	return episodes
}

// ApplyMinStreak reclassifies ACTIVE episodes shorter than minStreakSec as
// INACTIVE noise. Boundaries and ordering are untouched, and adjacent
// episodes that end up with equal state are NOT merged; run Coalesce if a
// consumer needs strict alternation.
func ApplyMinStreak(episodes []Episode, minStreakSec float64) []Episode {
	cleaned := make([]Episode, len(episodes))
	for i, e := range episodes {
		if e.State == Active && e.Duration() < minStreakSec {
			e.State = Inactive
		}
		cleaned[i] = e
	}
	return cleaned
}

// Coalesce merges adjacent episodes with equal state into one. The input is
// assumed contiguous.
func Coalesce(episodes []Episode) []Episode {
	if len(episodes) == 0 {
		return nil
	}

	merged := []Episode{episodes[0]}
	for _, e := range episodes[1:] {
		last := &merged[len(merged)-1]
		if e.State == last.State {
			last.End = e.End
			continue
		}
		merged = append(merged, e)
	}
	return merged
}

func stateOf(active bool) State {
	if active {
		return Active
	}
	return Inactive
}
