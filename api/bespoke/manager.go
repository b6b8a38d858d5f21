package bespoke

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type BespokeRoutesManager struct {
	logger             *gecho.Logger
	customOrderService *services.CustomOrderService
	mw                 *middleware.Middleware
}

func NewBespokeRoutesManager(
	logger *gecho.Logger,
	customOrderService *services.CustomOrderService,
	mw *middleware.Middleware,
) *BespokeRoutesManager {
	return &BespokeRoutesManager{
		logger:             logger,
		customOrderService: customOrderService,
		mw:                 mw,
	}
}

func (brm *BespokeRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/bespoke", func(r chi.Router) {
		r.Post("/", brm.CreateRequest)
		r.With(brm.mw.RequireUser).Get("/", brm.MyRequests)
	})
}
