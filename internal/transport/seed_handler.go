package transport

import (
	"net/http"

	"product-catalog/internal/middleware"
	"product-catalog/internal/seed"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SeedHandler exposes the one-shot catalog seeding flow
type SeedHandler struct {
	seeder *seed.Seeder
	logger *zap.Logger
}

// NewSeedHandler creates a new SeedHandler
func NewSeedHandler(seeder *seed.Seeder, logger *zap.Logger) *SeedHandler {
	return &SeedHandler{
		seeder: seeder,
		logger: logger,
	}
}

// RegisterRoutes registers the seed route
func (h *SeedHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/seed", h.Run)
}

// Run handles POST /api/seed
func (h *SeedHandler) Run(w http.ResponseWriter, r *http.Request) {
	if err := h.seeder.Run(r.Context()); err != nil {
		h.logger.Error("Seeding failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to seed catalog")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "SEED EXECUTED"})
}
