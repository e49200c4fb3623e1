package api

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/opetryk/wheeltrack/internal/database"
	"github.com/opetryk/wheeltrack/internal/httputil"
	"github.com/opetryk/wheeltrack/internal/models"
	"github.com/opetryk/wheeltrack/internal/storage"
)

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// App holds the recording upload and catalog handlers.
type App struct {
	Storage       storage.Storage
	RecordingRepo *database.RecordingRepository
	TimelineRepo  *database.TimelineRepo
	MaxUploadSize int64
}

type recordingResponse struct {
	ID          string    `json:"id"`
	Day         string    `json:"day"`
	Condition   string    `json:"condition"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	DurationSec float64   `json:"duration_sec"`
	Status      string    `json:"status"`
	UploadTime  time.Time `json:"upload_time"`
}

type episodeResponse struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	State    string  `json:"state"`
}

func toRecordingResponse(rec *models.Recording) recordingResponse {
	return recordingResponse{
		ID:          rec.ID,
		Day:         rec.Day,
		Condition:   rec.Condition,
		Filename:    rec.Filename,
		ContentType: rec.ContentType,
		Size:        rec.Size,
		DurationSec: rec.DurationSec,
		Status:      rec.Status,
		UploadTime:  rec.UploadTime,
	}
}

// UploadHandler accepts a multipart day recording with its day and
// condition labels and registers it for analysis.
func (app *App) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "file_too_large", "File too large")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "missing_file", "Failed to get file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") && contentType != "application/octet-stream" {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".mp4" {
			httputil.WriteError(w, http.StatusBadRequest, "bad_content_type", "Only MP4 video files are allowed")
			return
		}
		contentType = "video/mp4"
	}

	day := r.FormValue("day")
	if day == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing_day", "Day is required")
		return
	}
	condition := r.FormValue("condition")
	if condition == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing_condition", "Condition is required")
		return
	}

	filename, err := app.Storage.SaveFile(file, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	})
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "storage_error", "Failed to save file")
		return
	}

	rec := models.NewRecording(day, condition, filename, contentType, header.Size)
	if err := app.RecordingRepo.Insert(r.Context(), rec); err != nil {
		app.Storage.DeleteFile(filename)
		httputil.WriteError(w, http.StatusInternalServerError, "db_error", "Failed to save recording information")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toRecordingResponse(rec))
}

func (app *App) ListRecordingsHandler(w http.ResponseWriter, r *http.Request) {
	var (
		recordings []models.Recording
		err        error
	)
	if condition := r.URL.Query().Get("condition"); condition != "" {
		recordings, err = app.RecordingRepo.ListByCondition(r.Context(), condition)
	} else {
		recordings, err = app.RecordingRepo.List(r.Context())
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "db_error", "Failed to list recordings")
		return
	}

	out := make([]recordingResponse, len(recordings))
	for i := range recordings {
		out[i] = toRecordingResponse(&recordings[i])
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// GetRecordingHandler returns one recording together with its analyzed
// timeline, when present.
func (app *App) GetRecordingHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := app.RecordingRepo.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "Recording not found")
		return
	}

	episodes, err := app.TimelineRepo.GetEpisodes(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "db_error", "Failed to load timeline")
		return
	}
	summary, err := app.TimelineRepo.GetSummary(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "db_error", "Failed to load summary")
		return
	}

	episodesOut := make([]episodeResponse, len(episodes))
	for i, e := range episodes {
		episodesOut[i] = episodeResponse{
			StartSec: e.Start,
			EndSec:   e.End,
			State:    e.State.String(),
		}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recording": toRecordingResponse(rec),
		"episodes":  episodesOut,
		"summary":   summary,
	})
}

// StreamRecordingHandler serves the raw video with range support.
func (app *App) StreamRecordingHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := app.RecordingRepo.GetByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	file, err := app.Storage.OpenFile(rec.Filename)
	if err != nil {
		http.Error(w, "Recording file not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", rec.ContentType)
	http.ServeContent(w, r, rec.Filename, rec.UploadTime, file)
}

func (app *App) ConditionsHandler(w http.ResponseWriter, r *http.Request) {
	conditions, err := app.RecordingRepo.Conditions(r.Context())
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "db_error", "Failed to list conditions")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, conditions)
}
