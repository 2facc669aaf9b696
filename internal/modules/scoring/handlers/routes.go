package handlers

import (
	"errors"

	"github.com/go-chi/chi/v5"
)

var errNoProvider = errors.New("no data provider configured")

// RegisterRoutes registers all scoring routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/scoring", func(r chi.Router) {
		r.Post("/temperature", h.HandleCalculate)         // Score a portfolio's targets
		r.Post("/aggregations", h.HandleAggregations)     // Score and aggregate into portfolio figures
		r.Post("/distribution", h.HandleDistribution)     // Column percentage distribution
		r.Post("/anonymized-dump", h.HandleAnonymizedDump) // Persist an anonymized score dump
	})
}
