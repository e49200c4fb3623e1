package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/opetryk/wheeltrack/internal/timeline"
)

// TimelineRepo persists a recording's episode sequence and derived day
// summary. Episode rows keep their original ordering through the seq column.
type TimelineRepo struct {
	db *DB
}

func NewTimelineRepo(db *DB) *TimelineRepo {
	return &TimelineRepo{db: db}
}

// ReplaceEpisodes atomically swaps a recording's stored episodes for the
// given sequence, so re-analysis never leaves a mixed timeline behind.
func (r *TimelineRepo) ReplaceEpisodes(ctx context.Context, recordingID string, episodes []timeline.Episode) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM episodes WHERE recording_id = $1`, recordingID); err != nil {
		return fmt.Errorf("failed to clear episodes: %w", err)
	}

	query := `
		INSERT INTO episodes (id, recording_id, seq, start_sec, end_sec, state)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, e := range episodes {
		if _, err := tx.ExecContext(ctx, query,
			uuid.New().String(), recordingID, i, e.Start, e.End, e.State.String()); err != nil {
			return fmt.Errorf("failed to insert episode %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit episodes: %w", err)
	}
	return nil
}

func (r *TimelineRepo) GetEpisodes(ctx context.Context, recordingID string) ([]timeline.Episode, error) {
	query := `
		SELECT start_sec, end_sec, state
		FROM episodes
		WHERE recording_id = $1
		ORDER BY seq`

	rows, err := r.db.conn.QueryContext(ctx, query, recordingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []timeline.Episode
	for rows.Next() {
		var e timeline.Episode
		var state string
		if err := rows.Scan(&e.Start, &e.End, &state); err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}
		if state == timeline.Active.String() {
			e.State = timeline.Active
		}
		episodes = append(episodes, e)
	}
	return episodes, rows.Err()
}

func (r *TimelineRepo) UpsertSummary(ctx context.Context, recordingID string, s timeline.DaySummary) error {
	var query string
	if r.db.dbType == "postgres" {
		query = `
			INSERT INTO day_summaries (recording_id, total_active_sec, episode_count, avg_episode_sec, longest_sec)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (recording_id)
			DO UPDATE SET
				total_active_sec = EXCLUDED.total_active_sec,
				episode_count = EXCLUDED.episode_count,
				avg_episode_sec = EXCLUDED.avg_episode_sec,
				longest_sec = EXCLUDED.longest_sec`
	} else {
		query = `
			INSERT OR REPLACE INTO day_summaries (recording_id, total_active_sec, episode_count, avg_episode_sec, longest_sec)
			VALUES ($1, $2, $3, $4, $5)`
	}

	_, err := r.db.conn.ExecContext(ctx, query,
		recordingID, s.TotalActiveSec, s.EpisodeCount, s.AvgEpisodeSec, s.LongestSec)
	if err != nil {
		return fmt.Errorf("failed to upsert day summary: %w", err)
	}
	return nil
}

// GetSummary returns nil when the recording has not been analyzed yet.
func (r *TimelineRepo) GetSummary(ctx context.Context, recordingID string) (*timeline.DaySummary, error) {
	query := `
		SELECT total_active_sec, episode_count, avg_episode_sec, longest_sec
		FROM day_summaries
		WHERE recording_id = $1`

	s := &timeline.DaySummary{}
	err := r.db.conn.QueryRowContext(ctx, query, recordingID).Scan(
		&s.TotalActiveSec, &s.EpisodeCount, &s.AvgEpisodeSec, &s.LongestSec)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day summary: %w", err)
	}
	return s, nil
}

func (r *TimelineRepo) DeleteByRecordingID(ctx context.Context, recordingID string) error {
	if _, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM episodes WHERE recording_id = $1`, recordingID); err != nil {
		return fmt.Errorf("failed to delete episodes: %w", err)
	}
	if _, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM day_summaries WHERE recording_id = $1`, recordingID); err != nil {
		return fmt.Errorf("failed to delete day summary: %w", err)
	}
	return nil
}
