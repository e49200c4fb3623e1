package analysis

import (
	"context"
	"time"

	"github.com/opetryk/wheeltrack/internal/timeline"
)

// Session tracks one in-flight analysis of a recording. Updates carries
// progress events until the loop finishes and closes the channel.
type Session struct {
	ID          string
	RecordingID string
	Status      string
	StartedAt   time.Time
	CompletedAt *time.Time
	Updates     chan SessionUpdate
	CancelFunc  context.CancelFunc
}

type SessionUpdate struct {
	Type string
	Data interface{}
}

// AnalysisResult is the payload of the final "complete" update.
type AnalysisResult struct {
	SessionID   string
	RecordingID string
	Episodes    []timeline.Episode
	Summary     timeline.DaySummary
	TimeElapsed time.Duration
}
