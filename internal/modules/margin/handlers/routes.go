package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all margin routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/margin", func(r chi.Router) {
		// Ad-hoc analysis on caller-supplied portfolio state
		r.Post("/simulate", h.HandleSimulate)
		r.Post("/stress-test", h.HandleStressTest)

		// Stress scenario catalog
		r.Get("/scenarios", h.HandleScenarios)

		// Stored portfolio snapshots
		r.Get("/portfolios/{id}/risk-profile", h.HandleRiskProfile)
		r.Post("/portfolios/{id}/simulate", h.HandleSimulateStored)
	})
}
