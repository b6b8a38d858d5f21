package api

import (
	"knitcraft_server/api/admin"
	"knitcraft_server/api/auth"
	"knitcraft_server/api/bespoke"
	"knitcraft_server/api/cart"
	"knitcraft_server/api/content"
	"knitcraft_server/api/debug"
	"knitcraft_server/api/health"
	"knitcraft_server/api/middleware"
	"knitcraft_server/api/orders"
	"knitcraft_server/api/products"
	"knitcraft_server/api/reviews"
	"knitcraft_server/services"
	"knitcraft_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

type routerManager struct {
	routes []routeRegistrar
}

func NewRouterManager(logger *gecho.Logger, cfg *structs.Config, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		routes: []routeRegistrar{
			health.NewHealthRoutesManager(sm.HealthService),
			products.NewProductRoutesManager(logger, sm.ProductService),
			cart.NewCartRoutesManager(logger, cfg, sm.CartService),
			orders.NewOrderRoutesManager(logger, sm.OrderService, sm.CartService, mw),
			reviews.NewReviewRoutesManager(logger, sm.ReviewService),
			bespoke.NewBespokeRoutesManager(logger, sm.CustomOrderService, mw),
			content.NewContentRoutesManager(logger, sm.ContentService),
			auth.NewAuthRoutesManager(logger, sm.AuthService, mw),
			admin.NewAdminRoutesManager(sm, logger, mw),
			debug.NewDebugRoutesManager(logger, sm.CacheService, mw),
		},
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	for _, routes := range rm.routes {
		routes.RegisterRoutes(r)
	}
}
