package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/draft-advisor/internal/api/handlers"
	"github.com/ramonehamilton/draft-advisor/internal/api/response"
	"github.com/ramonehamilton/draft-advisor/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)

		recommendationHandler := handlers.NewRecommendationHandler(s.advisor, s.cfg.HeroTunables, s.cfg.SkillTunables)
		r.With(timed(s.metrics.ObserveRecommendation)).Post("/recommendations", recommendationHandler.Recommend)

		itemsHandler := handlers.NewItemsHandler(s.advisor)
		r.Get("/items", itemsHandler.GetItems)
		r.Get("/items/{kind}/{name}", itemsHandler.GetItem)
		r.Get("/analytics", itemsHandler.GetAnalytics)

		synergyHandler := handlers.NewSynergyHandler(s.advisor)
		r.Route("/synergies", func(r chi.Router) {
			r.Get("/heroes/{name}", synergyHandler.GetHeroSynergies)
			r.Get("/skills/{name}", synergyHandler.GetSkillSynergies)
			r.Get("/cross", synergyHandler.GetCrossSynergy)
		})

		rankingsHandler := handlers.NewRankingsHandler(s.advisor)
		r.Get("/rankings/{kind}", rankingsHandler.GetRankings)
		r.Get("/statistics", rankingsHandler.GetStatistics)

		systemHandler := handlers.NewSystemHandler(s.advisor)
		r.Get("/status", systemHandler.GetStatus)
		r.With(timed(s.metrics.ObserveReload)).Post("/reload", systemHandler.Reload)
		r.Get("/metrics", s.getMetrics)
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "draft-advisor-api",
		"version": version.GetVersion(),
	})
}

// getMetrics returns request counters and latency percentiles.
func (s *Server) getMetrics(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, s.metrics.GetStats())
}
