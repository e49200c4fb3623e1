package api

import (
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/opetryk/wheeltrack/internal/httputil"
	"github.com/opetryk/wheeltrack/internal/stats"
)

type StatsHandlers struct {
	rollup       *Rollup
	curveStepSec int64
}

func NewStatsHandlers(rollup *Rollup, curveStepSec int64) *StatsHandlers {
	if curveStepSec <= 0 {
		curveStepSec = 60
	}
	return &StatsHandlers{rollup: rollup, curveStepSec: curveStepSec}
}

func (h *StatsHandlers) group(w http.ResponseWriter, r *http.Request) (stats.GroupResult, bool) {
	name := chi.URLParam(r, "name")

	group, err := h.rollup.Group(r.Context(), name)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "rollup_error", err.Error())
		return stats.GroupResult{}, false
	}
	return group, true
}

func (h *StatsHandlers) GroupSummaryHandler(w http.ResponseWriter, r *http.Request) {
	group, ok := h.group(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group.Daily)
}

func (h *StatsHandlers) GroupSessionsHandler(w http.ResponseWriter, r *http.Request) {
	group, ok := h.group(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group.Sessions)
}

func (h *StatsHandlers) GroupHourlyHandler(w http.ResponseWriter, r *http.Request) {
	group, ok := h.group(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group.Hourly)
}

func (h *StatsHandlers) GroupCurveHandler(w http.ResponseWriter, r *http.Request) {
	group, ok := h.group(w, r)
	if !ok {
		return
	}
	curve := stats.AvgCumulativeCurve(group.Sessions, group.MaxSeconds, h.curveStepSec)
	httputil.WriteJSON(w, http.StatusOK, curve)
}

// CompareHandler compares two conditions. An empty group is a client
// error: there is nothing to compare against.
func (h *StatsHandlers) CompareHandler(w http.ResponseWriter, r *http.Request) {
	nameA := r.URL.Query().Get("a")
	nameB := r.URL.Query().Get("b")
	if nameA == "" || nameB == "" {
		httputil.WriteError(w, http.StatusBadRequest, "missing_params", "Query parameters a and b are required")
		return
	}

	groupA, err := h.rollup.Group(r.Context(), nameA)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "rollup_error", err.Error())
		return
	}
	groupB, err := h.rollup.Group(r.Context(), nameB)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "rollup_error", err.Error())
		return
	}

	comparison, err := stats.Compare(groupA, groupB)
	if err != nil {
		if errors.Is(err, stats.ErrEmptyGroup) {
			httputil.WriteError(w, http.StatusUnprocessableEntity, "empty_group", err.Error())
			return
		}
		httputil.WriteError(w, http.StatusInternalServerError, "compare_error", err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toComparisonResponse(comparison))
}

// comparisonResponse mirrors stats.Comparison with the NaN percentage
// sentinel mapped to null, since JSON has no NaN.
type comparisonResponse struct {
	A       stats.GroupStats `json:"a"`
	B       stats.GroupStats `json:"b"`
	DiffMin float64          `json:"diff_min"`
	DiffPct *float64         `json:"diff_pct"`
}

func toComparisonResponse(c stats.Comparison) comparisonResponse {
	resp := comparisonResponse{A: c.A, B: c.B, DiffMin: c.DiffMin}
	if !math.IsNaN(c.DiffPct) {
		pct := c.DiffPct
		resp.DiffPct = &pct
	}
	return resp
}
