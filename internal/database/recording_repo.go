package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/opetryk/wheeltrack/internal/models"
)

type RecordingRepository struct {
	db *DB
}

func NewRecordingRepository(db *DB) *RecordingRepository {
	return &RecordingRepository{db: db}
}

const recordingColumns = "id, day, condition, filename, content_type, size, duration_sec, status, upload_time"

func (r *RecordingRepository) Insert(ctx context.Context, rec *models.Recording) error {
	query := `
		INSERT INTO recordings (` + recordingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.conn.ExecContext(ctx, query,
		rec.ID, rec.Day, rec.Condition, rec.Filename, rec.ContentType,
		rec.Size, rec.DurationSec, rec.Status, rec.UploadTime)
	if err != nil {
		return fmt.Errorf("failed to insert recording: %w", err)
	}
	return nil
}

func (r *RecordingRepository) GetByID(ctx context.Context, id string) (*models.Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings WHERE id = $1`

	rec := &models.Recording{}
	err := r.db.conn.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Day, &rec.Condition, &rec.Filename, &rec.ContentType,
		&rec.Size, &rec.DurationSec, &rec.Status, &rec.UploadTime)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recording not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recording: %w", err)
	}
	return rec, nil
}

func (r *RecordingRepository) List(ctx context.Context) ([]models.Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings ORDER BY condition, day`
	return r.queryRecordings(ctx, query)
}

func (r *RecordingRepository) ListByCondition(ctx context.Context, condition string) ([]models.Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings WHERE condition = $1 ORDER BY day`
	return r.queryRecordings(ctx, query, condition)
}

func (r *RecordingRepository) queryRecordings(ctx context.Context, query string, args ...interface{}) ([]models.Recording, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}
	defer rows.Close()

	var recordings []models.Recording
	for rows.Next() {
		var rec models.Recording
		if err := rows.Scan(
			&rec.ID, &rec.Day, &rec.Condition, &rec.Filename, &rec.ContentType,
			&rec.Size, &rec.DurationSec, &rec.Status, &rec.UploadTime); err != nil {
			return nil, fmt.Errorf("failed to scan recording: %w", err)
		}
		recordings = append(recordings, rec)
	}
	return recordings, rows.Err()
}

func (r *RecordingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.conn.ExecContext(ctx,
		`UPDATE recordings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update recording status: %w", err)
	}
	return nil
}

func (r *RecordingRepository) UpdateDuration(ctx context.Context, id string, durationSec float64) error {
	_, err := r.db.conn.ExecContext(ctx,
		`UPDATE recordings SET duration_sec = $1 WHERE id = $2`, durationSec, id)
	if err != nil {
		return fmt.Errorf("failed to update recording duration: %w", err)
	}
	return nil
}

func (r *RecordingRepository) Conditions(ctx context.Context) ([]string, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT DISTINCT condition FROM recordings ORDER BY condition`)
	if err != nil {
		return nil, fmt.Errorf("failed to list conditions: %w", err)
	}
	defer rows.Close()

	var conditions []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan condition: %w", err)
		}
		conditions = append(conditions, c)
	}
	return conditions, rows.Err()
}
