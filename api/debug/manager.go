package debug

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/config"
	"knitcraft_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger       *gecho.Logger
	cacheService *services.CacheService
	mw           *middleware.Middleware
}

func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService, mw *middleware.Middleware) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:       logger,
		cacheService: cacheService,
		mw:           mw,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if config.IsProduction() {
		return
	}

	r.Route("/debug", func(r chi.Router) {
		r.Use(drm.mw.RequireAdmin)
		r.Get("/cache", drm.CacheStats)
		r.With(drm.mw.CSRFMiddleware()).Post("/cache/clear", drm.ClearProductCache)
	})
}
