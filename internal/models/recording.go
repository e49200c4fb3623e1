package models

import (
	"time"

	"github.com/google/uuid"
)

// Analysis states of a recording.
const (
	StatusUploaded  = "uploaded"
	StatusAnalyzing = "analyzing"
	StatusAnalyzed  = "analyzed"
	StatusFailed    = "failed"
)

// Recording is one daily video of the activity zone, belonging to exactly
// one condition group.
type Recording struct {
	ID          string
	Day         string // day identifier, e.g. "2024-03-01"
	Condition   string // group name, e.g. "meds" / "nomeds"
	Filename    string
	ContentType string
	Size        int64
	DurationSec float64
	Status      string
	UploadTime  time.Time
}

func NewRecording(day, condition, filename, contentType string, size int64) *Recording {
	return &Recording{
		ID:          uuid.New().String(),
		Day:         day,
		Condition:   condition,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Status:      StatusUploaded,
		UploadTime:  time.Now(),
	}
}
