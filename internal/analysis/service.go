// Package analysis runs recording analyses as background sessions: sampling
// motion signals from the video, classifying each sample, segmenting the
// timeline and persisting the result.
package analysis

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opetryk/wheeltrack/internal/database"
	"github.com/opetryk/wheeltrack/internal/models"
	"github.com/opetryk/wheeltrack/internal/storage"
	"github.com/opetryk/wheeltrack/internal/timeline"
	"github.com/opetryk/wheeltrack/internal/video"
)

// Prober reports container-level metadata for a video file.
type Prober interface {
	Probe(videoPath string) (*video.ProbeResult, error)
}

type Service struct {
	source         video.Source
	prober         Prober
	recordingRepo  *database.RecordingRepository
	timelineRepo   *database.TimelineRepo
	storageService storage.Storage
	detector       timeline.Detector
	minStreakSec   float64
	onAnalyzed     func(rec *models.Recording)
	sessions       map[string]*Session
	sessionsMu     sync.RWMutex
}

type Config struct {
	Detector     timeline.Detector
	MinStreakSec float64

	// OnAnalyzed runs after a recording's timeline is persisted, e.g. to
	// invalidate cached group tables.
	OnAnalyzed func(rec *models.Recording)
}

func NewService(
	source video.Source,
	prober Prober,
	recordingRepo *database.RecordingRepository,
	timelineRepo *database.TimelineRepo,
	storageService storage.Storage,
	config Config,
) *Service {
	return &Service{
		source:         source,
		prober:         prober,
		recordingRepo:  recordingRepo,
		timelineRepo:   timelineRepo,
		storageService: storageService,
		detector:       config.Detector,
		minStreakSec:   config.MinStreakSec,
		onAnalyzed:     config.OnAnalyzed,
		sessions:       make(map[string]*Session),
	}
}

// StartAnalysis kicks off a background analysis of the recording and
// returns the session immediately.
func (s *Service) StartAnalysis(ctx context.Context, recordingID string) (*Session, error) {
	rec, err := s.recordingRepo.GetByID(ctx, recordingID)
	if err != nil {
		return nil, fmt.Errorf("getting recording: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())

	session := &Session{
		ID:          uuid.New().String(),
		RecordingID: recordingID,
		Status:      "analyzing",
		StartedAt:   time.Now(),
		Updates:     make(chan SessionUpdate, 100),
		CancelFunc:  cancel,
	}

	s.sessionsMu.Lock()
	s.sessions[session.ID] = session
	s.sessionsMu.Unlock()

	go s.runAnalysisLoop(loopCtx, session, rec)

	return session, nil
}

func (s *Service) GetSession(sessionID string) (*Session, bool) {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()

	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *Service) StopAnalysis(sessionID string) error {
	s.sessionsMu.Lock()
	session, exists := s.sessions[sessionID]
	s.sessionsMu.Unlock()

	if !exists {
		return fmt.Errorf("session not found")
	}

	if session.CancelFunc != nil {
		log.Printf("[ANALYSIS] Stopping analysis for session %s", sessionID)
		session.CancelFunc()
	}
	return nil
}

// runAnalysisLoop is the whole pipeline for one recording. A failure here
// marks this session and recording only; other sessions keep running.
func (s *Service) runAnalysisLoop(ctx context.Context, session *Session, rec *models.Recording) {
	defer close(session.Updates)

	log.Printf("[ANALYSIS] Starting analysis for recording %s, session %s", rec.ID, session.ID)

	if err := s.recordingRepo.UpdateStatus(ctx, rec.ID, models.StatusAnalyzing); err != nil {
		log.Printf("[ANALYSIS] Error updating status: %v", err)
	}

	videoPath, err := s.storageService.FilePath(rec.Filename)
	if err != nil {
		s.fail(ctx, session, rec, fmt.Errorf("resolving video path: %w", err))
		return
	}

	probe, err := s.prober.Probe(videoPath)
	if err != nil {
		s.fail(ctx, session, rec, fmt.Errorf("probing video: %w", err))
		return
	}
	if err := s.recordingRepo.UpdateDuration(ctx, rec.ID, probe.DurationSec); err != nil {
		log.Printf("[ANALYSIS] Error updating duration: %v", err)
	}

	session.Updates <- SessionUpdate{
		Type: "probe",
		Data: map[string]interface{}{
			"duration_sec": probe.DurationSec,
			"width":        probe.Width,
			"height":       probe.Height,
			"fps":          probe.FPS,
		},
	}

	signals, err := s.source.Signals(ctx, videoPath)
	if err != nil {
		if ctx.Err() != nil {
			s.cancelled(ctx, session, rec)
			return
		}
		s.fail(ctx, session, rec, fmt.Errorf("sampling video: %w", err))
		return
	}

	log.Printf("[ANALYSIS] Sampled %d signals from recording %s", len(signals), rec.ID)
	session.Updates <- SessionUpdate{
		Type: "sampled",
		Data: map[string]interface{}{"samples": len(signals)},
	}

	samples := make([]timeline.Sample, len(signals))
	for i, sig := range signals {
		samples[i] = timeline.Sample{
			T:           sig.T,
			MotionScore: sig.MotionScore,
			BlobArea:    sig.BlobArea,
			Active:      s.detector.Active(sig.MotionScore, sig.BlobArea),
		}
	}

	episodes := timeline.Segment(samples)
	episodes = timeline.ApplyMinStreak(episodes, s.minStreakSec)
	summary := timeline.Summarize(episodes)

	if ctx.Err() != nil {
		s.cancelled(ctx, session, rec)
		return
	}

	if err := s.timelineRepo.ReplaceEpisodes(ctx, rec.ID, episodes); err != nil {
		s.fail(ctx, session, rec, fmt.Errorf("persisting episodes: %w", err))
		return
	}
	if err := s.timelineRepo.UpsertSummary(ctx, rec.ID, summary); err != nil {
		s.fail(ctx, session, rec, fmt.Errorf("persisting summary: %w", err))
		return
	}
	if err := s.recordingRepo.UpdateStatus(ctx, rec.ID, models.StatusAnalyzed); err != nil {
		log.Printf("[ANALYSIS] Error updating status: %v", err)
	}
	if s.onAnalyzed != nil {
		s.onAnalyzed(rec)
	}

	now := time.Now()
	session.CompletedAt = &now
	session.Status = "complete"

	session.Updates <- SessionUpdate{
		Type: "complete",
		Data: AnalysisResult{
			SessionID:   session.ID,
			RecordingID: rec.ID,
			Episodes:    episodes,
			Summary:     summary,
			TimeElapsed: time.Since(session.StartedAt),
		},
	}
	log.Printf("[ANALYSIS] Analysis complete for recording %s: %d episodes, %.0fs active, %v elapsed",
		rec.ID, summary.EpisodeCount, summary.TotalActiveSec, time.Since(session.StartedAt))
}

func (s *Service) fail(ctx context.Context, session *Session, rec *models.Recording, err error) {
	log.Printf("[ANALYSIS] Session %s failed: %v", session.ID, err)
	session.Status = "error"

	// The loop context may already be cancelled; status still has to land.
	if dbErr := s.recordingRepo.UpdateStatus(context.Background(), rec.ID, models.StatusFailed); dbErr != nil {
		log.Printf("[ANALYSIS] Error updating status: %v", dbErr)
	}

	session.Updates <- SessionUpdate{
		Type: "error",
		Data: map[string]interface{}{"message": err.Error()},
	}
}

func (s *Service) cancelled(ctx context.Context, session *Session, rec *models.Recording) {
	log.Printf("[ANALYSIS] Session %s cancelled", session.ID)
	session.Status = "cancelled"

	if err := s.recordingRepo.UpdateStatus(context.Background(), rec.ID, models.StatusUploaded); err != nil {
		log.Printf("[ANALYSIS] Error updating status: %v", err)
	}

	session.Updates <- SessionUpdate{
		Type: "cancelled",
		Data: map[string]interface{}{"message": "Analysis cancelled by user"},
	}
}
