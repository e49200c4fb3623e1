package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opetryk/wheeltrack/internal/analysis"
	"github.com/opetryk/wheeltrack/internal/httputil"
)

type AnalysisHandlers struct {
	analysisService *analysis.Service
}

func NewAnalysisHandlers(analysisService *analysis.Service) *AnalysisHandlers {
	return &AnalysisHandlers{analysisService: analysisService}
}

func (h *AnalysisHandlers) StartAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	recordingID := chi.URLParam(r, "id")

	session, err := h.analysisService.StartAnalysis(r.Context(), recordingID)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "start_failed",
			fmt.Sprintf("Failed to start analysis: %v", err))
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{
		"session_id":   session.ID,
		"recording_id": session.RecordingID,
		"status":       session.Status,
	})
}

// AnalysisStreamHandler streams session updates as server-sent events until
// the analysis loop closes the channel or the client disconnects.
func (h *AnalysisHandlers) AnalysisStreamHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, exists := h.analysisService.GetSession(sessionID)
	if !exists {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	clientGone := r.Context().Done()

	for {
		select {
		case update, ok := <-session.Updates:
			if !ok {
				return
			}

			data, err := json.Marshal(update.Data)
			if err != nil {
				log.Printf("Error marshaling update: %v", err)
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", update.Type, string(data))
			flusher.Flush()

		case <-clientGone:
			return
		}
	}
}

func (h *AnalysisHandlers) StopAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.analysisService.StopAnalysis(sessionID); err != nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"session_id": sessionID, "status": "stopping"})
}
