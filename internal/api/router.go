package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App, analysisHandlers *AnalysisHandlers, statsHandlers *StatsHandlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Post("/upload", app.UploadHandler)
	r.Get("/recordings", app.ListRecordingsHandler)
	r.Get("/recordings/{id}", app.GetRecordingHandler)
	r.Get("/recordings/{id}/video", app.StreamRecordingHandler)
	r.Post("/recordings/{id}/analyze", analysisHandlers.StartAnalysisHandler)

	r.Get("/analysis/{sessionID}/events", analysisHandlers.AnalysisStreamHandler)
	r.Post("/analysis/{sessionID}/stop", analysisHandlers.StopAnalysisHandler)

	r.Get("/conditions", app.ConditionsHandler)
	r.Get("/conditions/{name}/summary", statsHandlers.GroupSummaryHandler)
	r.Get("/conditions/{name}/sessions", statsHandlers.GroupSessionsHandler)
	r.Get("/conditions/{name}/hourly", statsHandlers.GroupHourlyHandler)
	r.Get("/conditions/{name}/curve", statsHandlers.GroupCurveHandler)
	r.Get("/compare", statsHandlers.CompareHandler)

	return r
}
