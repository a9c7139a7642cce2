package routes

import (
	"net/http"

	"github.com/zatekoja/feedbackdashboard/internal/api/handlers"
	"github.com/zatekoja/feedbackdashboard/internal/api/middleware"
	"github.com/zatekoja/feedbackdashboard/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	dashboardHandler *handlers.DashboardHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	dashboardHandler *handlers.DashboardHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		dashboardHandler: dashboardHandler,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	r.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/dashboard", http.StatusFound)
	})

	// Dashboard endpoints
	r.mux.HandleFunc("GET /dashboard", r.dashboardHandler.GetDashboard)
	r.mux.HandleFunc("GET /dashboard/tally", r.dashboardHandler.GetTally)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	handler = middleware.CORS(r.allowedOrigins)(handler)

	return handler
}
