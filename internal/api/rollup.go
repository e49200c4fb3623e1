package api

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/opetryk/wheeltrack/internal/database"
	"github.com/opetryk/wheeltrack/internal/models"
	"github.com/opetryk/wheeltrack/internal/stats"
)

// Rollup derives the per-condition group tables from analyzed recordings
// and caches them. The stats endpoints read the cache; a nightly cron job
// and on-demand misses recompute it.
type Rollup struct {
	recordingRepo *database.RecordingRepository
	timelineRepo  *database.TimelineRepo

	mu     sync.RWMutex
	groups map[string]stats.GroupResult
}

func NewRollup(recordingRepo *database.RecordingRepository, timelineRepo *database.TimelineRepo) *Rollup {
	return &Rollup{
		recordingRepo: recordingRepo,
		timelineRepo:  timelineRepo,
		groups:        make(map[string]stats.GroupResult),
	}
}

// Group returns the cached tables for a condition, computing them on a miss.
func (ru *Rollup) Group(ctx context.Context, name string) (stats.GroupResult, error) {
	ru.mu.RLock()
	group, ok := ru.groups[name]
	ru.mu.RUnlock()
	if ok {
		return group, nil
	}
	return ru.Recompute(ctx, name)
}

func (ru *Rollup) Recompute(ctx context.Context, name string) (stats.GroupResult, error) {
	group, err := ru.buildGroup(ctx, name)
	if err != nil {
		return stats.GroupResult{}, err
	}

	ru.mu.Lock()
	ru.groups[name] = group
	ru.mu.Unlock()
	return group, nil
}

// RecomputeAll rebuilds every condition's tables. Run from the nightly cron.
func (ru *Rollup) RecomputeAll(ctx context.Context) {
	conditions, err := ru.recordingRepo.Conditions(ctx)
	if err != nil {
		log.Printf("[ROLLUP] Error listing conditions: %v", err)
		return
	}

	for _, name := range conditions {
		if _, err := ru.Recompute(ctx, name); err != nil {
			log.Printf("[ROLLUP] Error recomputing %s: %v", name, err)
		}
	}
	log.Printf("[ROLLUP] Recomputed tables for %d condition(s)", len(conditions))
}

// Invalidate drops a condition's cached tables, e.g. after a re-analysis.
func (ru *Rollup) Invalidate(name string) {
	ru.mu.Lock()
	delete(ru.groups, name)
	ru.mu.Unlock()
}

func (ru *Rollup) buildGroup(ctx context.Context, name string) (stats.GroupResult, error) {
	recordings, err := ru.recordingRepo.ListByCondition(ctx, name)
	if err != nil {
		return stats.GroupResult{}, fmt.Errorf("listing recordings for %s: %w", name, err)
	}

	var days []stats.Day
	for _, rec := range recordings {
		if rec.Status != models.StatusAnalyzed {
			continue
		}
		episodes, err := ru.timelineRepo.GetEpisodes(ctx, rec.ID)
		if err != nil {
			return stats.GroupResult{}, fmt.Errorf("loading episodes for %s: %w", rec.ID, err)
		}

		rows := make([]stats.DayRow, len(episodes))
		for i, e := range episodes {
			rows[i] = stats.DayRow{
				StartSec:    int64(math.Round(e.Start)),
				EndSec:      int64(math.Round(e.End)),
				DurationSec: int64(math.Round(e.Duration())),
				State:       e.State,
			}
		}
		days = append(days, stats.Day{Date: rec.Day, Rows: rows})
	}

	if len(days) == 0 {
		return stats.GroupResult{Name: name}, nil
	}
	return stats.BuildGroup(name, days), nil
}
