package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/opetryk/wheeltrack/internal/analysis"
	"github.com/opetryk/wheeltrack/internal/api"
	"github.com/opetryk/wheeltrack/internal/database"
	"github.com/opetryk/wheeltrack/internal/storage"
	"github.com/opetryk/wheeltrack/internal/timeline"
	"github.com/opetryk/wheeltrack/internal/video"
)

// fakeSource replays a scripted signal sequence instead of running ffmpeg,
// so the full upload/analyze/stats flow runs without real video files.
type fakeSource struct {
	signals []video.Signal
}

func (f *fakeSource) Signals(ctx context.Context, videoPath string) ([]video.Signal, error) {
	return f.signals, nil
}

type fakeProber struct {
	result video.ProbeResult
}

func (f *fakeProber) Probe(videoPath string) (*video.ProbeResult, error) {
	r := f.result
	return &r, nil
}

type TestServer struct {
	Server        *httptest.Server
	DB            *database.DB
	RecordingRepo *database.RecordingRepository
	TimelineRepo  *database.TimelineRepo
	Source        *fakeSource
}

func setupTestServer(t *testing.T) *TestServer {
	t.Helper()

	localStorage, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	db, err := database.NewDB(database.Config{Type: "sqlite", SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}

	recordingRepo := database.NewRecordingRepository(db)
	timelineRepo := database.NewTimelineRepo(db)

	detector, err := timeline.NewThresholdDetector(5, 60)
	if err != nil {
		t.Fatalf("Failed to build detector: %v", err)
	}

	source := &fakeSource{}
	rollup := api.NewRollup(recordingRepo, timelineRepo)
	analysisService := analysis.NewService(
		source,
		&fakeProber{result: video.ProbeResult{DurationSec: 600, Width: 640, Height: 480, FPS: 30}},
		recordingRepo,
		timelineRepo,
		localStorage,
		analysis.Config{Detector: detector, MinStreakSec: 3},
	)

	app := &api.App{
		Storage:       localStorage,
		RecordingRepo: recordingRepo,
		TimelineRepo:  timelineRepo,
		MaxUploadSize: 10 * 1024 * 1024,
	}

	router := api.NewRouter(app, api.NewAnalysisHandlers(analysisService), api.NewStatsHandlers(rollup, 60))
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:        server,
		DB:            db,
		RecordingRepo: recordingRepo,
		TimelineRepo:  timelineRepo,
		Source:        source,
	}
	t.Cleanup(func() {
		server.Close()
		db.Close()
	})
	return ts
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeData(t *testing.T, body io.Reader, dst interface{}) {
	t.Helper()

	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("Failed to decode data: %v", err)
		}
	}
}

func createMultipartUpload(day, condition, filename string, content []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("video", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, bytes.NewReader(content)); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField("day", day); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("condition", condition); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func countRecordingsInDB(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM recordings").Scan(&count)
	return count, err
}

// uploadTestRecording uploads a fake recording and returns its ID.
func uploadTestRecording(t *testing.T, ts *TestServer, day, condition string) string {
	t.Helper()

	content := []byte("fake mp4 content for testing")
	body, contentType, err := createMultipartUpload(day, condition, day+"_cage.mp4", content)
	if err != nil {
		t.Fatalf("Failed to create multipart upload: %v", err)
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/upload", ts.Server.URL), body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to upload recording: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Upload failed with %d: %s", resp.StatusCode, raw)
	}

	var uploaded struct {
		ID string `json:"id"`
	}
	decodeData(t, resp.Body, &uploaded)
	if uploaded.ID == "" {
		t.Fatal("Upload response missing recording ID")
	}
	return uploaded.ID
}

// signalsWithActivity builds a 1 Hz signal track with active stretches
// defined as [start, end) second windows.
func signalsWithActivity(totalSec int, activeWindows [][2]int) []video.Signal {
	signals := make([]video.Signal, totalSec)
	for i := 0; i < totalSec; i++ {
		sig := video.Signal{T: float64(i)}
		for _, w := range activeWindows {
			if i >= w[0] && i < w[1] {
				sig.MotionScore = 20
				sig.BlobArea = 150
				break
			}
		}
		signals[i] = sig
	}
	return signals
}
