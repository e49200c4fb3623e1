package timeline

// Summarize reduces a day's episodes to its scalar statistics. Only ACTIVE
// episodes contribute; a day with none yields all zeros rather than a
// division by zero.
func Summarize(episodes []Episode) DaySummary {
	var s DaySummary
	for _, e := range episodes {
		if e.State != Active {
			continue
		}
		d := e.Duration()
		s.TotalActiveSec += d
		s.EpisodeCount++
		if d > s.LongestSec {
			s.LongestSec = d
		}
	}
	if s.EpisodeCount > 0 {
		s.AvgEpisodeSec = s.TotalActiveSec / float64(s.EpisodeCount)
	}
	return s
}
