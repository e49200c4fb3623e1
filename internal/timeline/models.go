// Package timeline implements the activity timeline engine: per-sample
// classification, episode segmentation, hour binning and cumulative curves
// for one day of recording.
package timeline

// State is the activity label of a sample or episode.
type State int

const (
	Inactive State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "ACTIVE"
	}
	return "INACTIVE"
}

// Sample is one timestamped observation from the frame-signal source.
// Samples for a day arrive in strictly increasing T order.
type Sample struct {
	T           float64
	MotionScore float64
	BlobArea    int
	Active      bool
}

// Episode is a maximal run of consecutive samples sharing one state.
// Episodes for a day are contiguous: each End equals the next Start.
type Episode struct {
	Start float64
	End   float64
	State State
}

func (e Episode) Duration() float64 {
	return e.End - e.Start
}

// DaySummary holds the per-day scalar statistics derived from ACTIVE episodes.
type DaySummary struct {
	TotalActiveSec float64 `json:"total_active_sec"`
	EpisodeCount   int     `json:"episode_count"`
	AvgEpisodeSec  float64 `json:"avg_episode_sec"`
	LongestSec     float64 `json:"longest_sec"`
}
