package database

import (
	"context"
	"testing"

	"github.com/opetryk/wheeltrack/internal/models"
)

func TestRecordingRepository_InsertAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRecordingRepository(db)
	ctx := context.Background()

	rec := models.NewRecording("2024-03-01", "meds", "2024-03-01_cage2.mp4", "video/mp4", 1024)
	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("Failed to insert recording: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve recording: %v", err)
	}

	if retrieved.Day != rec.Day {
		t.Errorf("Expected day %s, got %s", rec.Day, retrieved.Day)
	}
	if retrieved.Condition != rec.Condition {
		t.Errorf("Expected condition %s, got %s", rec.Condition, retrieved.Condition)
	}
	if retrieved.Status != models.StatusUploaded {
		t.Errorf("Expected status %s, got %s", models.StatusUploaded, retrieved.Status)
	}
}

func TestRecordingRepository_GetByID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRecordingRepository(db)

	if _, err := repo.GetByID(context.Background(), "nonexistent"); err == nil {
		t.Error("Expected error for missing recording, got nil")
	}
}

func TestRecordingRepository_ListByCondition(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRecordingRepository(db)
	ctx := context.Background()

	for _, spec := range []struct{ day, condition string }{
		{"2024-03-02", "meds"},
		{"2024-03-01", "meds"},
		{"2024-03-01", "nomeds"},
	} {
		rec := models.NewRecording(spec.day, spec.condition, spec.day+".mp4", "video/mp4", 100)
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("Failed to insert recording: %v", err)
		}
	}

	meds, err := repo.ListByCondition(ctx, "meds")
	if err != nil {
		t.Fatalf("Failed to list recordings: %v", err)
	}
	if len(meds) != 2 {
		t.Fatalf("Expected 2 meds recordings, got %d", len(meds))
	}
	if meds[0].Day != "2024-03-01" || meds[1].Day != "2024-03-02" {
		t.Errorf("Expected recordings ordered by day, got %s then %s", meds[0].Day, meds[1].Day)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list all recordings: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 recordings total, got %d", len(all))
	}
}

func TestRecordingRepository_UpdateStatusAndDuration(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRecordingRepository(db)
	ctx := context.Background()

	rec := models.NewRecording("2024-03-01", "meds", "day1.mp4", "video/mp4", 100)
	if err := repo.Insert(ctx, rec); err != nil {
		t.Fatalf("Failed to insert recording: %v", err)
	}

	if err := repo.UpdateStatus(ctx, rec.ID, models.StatusAnalyzed); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}
	if err := repo.UpdateDuration(ctx, rec.ID, 86400); err != nil {
		t.Fatalf("Failed to update duration: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve recording: %v", err)
	}
	if retrieved.Status != models.StatusAnalyzed {
		t.Errorf("Expected status %s, got %s", models.StatusAnalyzed, retrieved.Status)
	}
	if retrieved.DurationSec != 86400 {
		t.Errorf("Expected duration 86400, got %f", retrieved.DurationSec)
	}
}

func TestRecordingRepository_Conditions(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewRecordingRepository(db)
	ctx := context.Background()

	for _, condition := range []string{"nomeds", "meds", "meds"} {
		rec := models.NewRecording("2024-03-01", condition, "day1.mp4", "video/mp4", 100)
		if err := repo.Insert(ctx, rec); err != nil {
			t.Fatalf("Failed to insert recording: %v", err)
		}
	}

	conditions, err := repo.Conditions(ctx)
	if err != nil {
		t.Fatalf("Failed to list conditions: %v", err)
	}
	if len(conditions) != 2 {
		t.Fatalf("Expected 2 conditions, got %d", len(conditions))
	}
	if conditions[0] != "meds" || conditions[1] != "nomeds" {
		t.Errorf("Expected sorted conditions [meds nomeds], got %v", conditions)
	}
}
