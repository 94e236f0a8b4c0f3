package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smarttodo/prioritizer/internal/events"
	"github.com/smarttodo/prioritizer/internal/scoring"
	"github.com/smarttodo/prioritizer/internal/store"
)

var todosScoredTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "prioritizer_todos_scored_total",
	Help: "Number of todo items scored via the batch endpoint.",
})

func NewRouter(s store.Store, sc *scoring.Scorer, e events.Client, maxBatch int, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	score := NewScoreHandler(sc, e, maxBatch)
	todos := NewTodosHandler(s, sc, e)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/score", score.Score)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", todos.List)
			r.Post("/", todos.Create)
			r.Get("/{id}", todos.Get)
			r.Put("/{id}", todos.Update)
			r.Delete("/{id}", todos.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
