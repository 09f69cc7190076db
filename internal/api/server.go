// Package api provides the HTTP server for Mindscape.
// The desktop shell and CLI talk to the daemon through these routes.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mindscape-city/mindscape/internal/app/reward"
	"github.com/mindscape-city/mindscape/internal/app/rotation"
	"github.com/mindscape-city/mindscape/internal/app/session"
	"github.com/mindscape-city/mindscape/internal/infra/sqlite"
	"github.com/mindscape-city/mindscape/internal/notify"
	"github.com/mindscape-city/mindscape/internal/scene"
)

// Server is the Mindscape HTTP API server.
type Server struct {
	store          *sqlite.DB
	rotations      *rotation.Engine
	sessions       *session.Controller
	rewards        *reward.Service
	scene          *scene.Builder
	clicks         *notify.ClickRouter
	now            func() time.Time
	metricsEnabled bool
}

// NewServer creates an API server over the wired services.
func NewServer(store *sqlite.DB, rotations *rotation.Engine, sessions *session.Controller,
	rewards *reward.Service, sceneBuilder *scene.Builder, clicks *notify.ClickRouter,
	now func() time.Time) *Server {
	return &Server{
		store:     store,
		rotations: rotations,
		sessions:  sessions,
		rewards:   rewards,
		scene:     sceneBuilder,
		clicks:    clicks,
		now:       now,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/rotation", s.handleRotation)
		r.Post("/rotation/refresh", s.handleRotationRefresh)
		r.Get("/rotation/next-unlock", s.handleNextUnlock)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.handleSessionState)
			r.Post("/start", s.handleSessionStart)
			r.Post("/cancel", s.handleSessionCancel)
			r.Post("/cloud/catch", s.handleCloudCatch)
			r.Post("/lantern/release", s.handleLanternRelease)
			r.Post("/complete", s.handleSessionComplete)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", s.handleListSchedules)
			r.Post("/", s.handleCreateSchedule)
			r.Put("/{id}", s.handleUpdateSchedule)
			r.Delete("/{id}", s.handleDeleteSchedule)
		})

		r.Get("/stats", s.handleStats)
		r.Post("/rewards/claim", s.handleClaimReward)

		r.Get("/city", s.handleCity)
		r.Post("/city/place", s.handleCityPlace)
		r.Get("/city/click/{id}", s.handleCityClick)

		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{id}/shown", s.handleNotificationShown)
		r.Post("/notifications/click", s.handleNotificationClick)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleSaveSettings)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}
