package ui

import (
	"encoding/json"
	"net/http"

	"churnboard/internal/dataset"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewOpsRouter serves liveness, readiness and the profiler on a separate
// listener. The process is ready once source has a cached table.
func NewOpsRouter(cache *dataset.Cache, source string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		info, ok := cache.Info(source)
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "loading",
				"source": source,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ready",
			"dataset": info,
		})
	})
	r.Mount("/debug", middleware.Profiler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
