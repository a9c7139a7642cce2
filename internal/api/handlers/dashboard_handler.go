package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zatekoja/feedbackdashboard/internal/adapters/render"
	"github.com/zatekoja/feedbackdashboard/internal/application/services"
	"github.com/zatekoja/feedbackdashboard/internal/domain/providers"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
)

// DashboardLoader defines the load operation used by the handler.
type DashboardLoader interface {
	Load(ctx context.Context, page providers.Page) services.LoadReport
}

// DashboardHandler serves the feedback dashboard.
type DashboardHandler struct {
	loader   DashboardLoader
	renderer *render.DocumentRenderer
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(loader DashboardLoader, renderer *render.DocumentRenderer) *DashboardHandler {
	return &DashboardHandler{
		loader:   loader,
		renderer: renderer,
	}
}

type tallyResponse struct {
	Labels []string `json:"labels"`
	Counts []int    `json:"counts"`
	Total  int      `json:"total"`
}

// GetDashboard handles GET /dashboard. Each request loads a fresh page once.
// A failed load still renders the page, with whatever was populated.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	page := render.NewPage()
	report := h.loader.Load(r.Context(), page)
	w.Header().Set("X-Dashboard-Run-Id", report.RunID)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Render(w, page); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Failed to render dashboard")
		respondWithError(w, http.StatusInternalServerError, "failed to render dashboard")
	}
}

// GetTally handles GET /dashboard/tally
func (h *DashboardHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	report := h.loader.Load(r.Context(), render.NewPage())
	w.Header().Set("X-Dashboard-Run-Id", report.RunID)

	if report.Failed() || report.Tally == nil {
		respondWithError(w, http.StatusBadGateway, "feedback data unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, tallyResponse{
		Labels: report.Tally.Labels(),
		Counts: report.Tally.Counts(),
		Total:  report.Tally.Total(),
	})
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
