package orders

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type OrderRoutesManager struct {
	logger       *gecho.Logger
	orderService *services.OrderService
	cartService  *services.CartService
	mw           *middleware.Middleware
}

func NewOrderRoutesManager(
	logger *gecho.Logger,
	orderService *services.OrderService,
	cartService *services.CartService,
	mw *middleware.Middleware,
) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:       logger,
		orderService: orderService,
		cartService:  cartService,
		mw:           mw,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Post("/checkout", orm.Checkout)

	r.Route("/orders", func(r chi.Router) {
		r.Use(orm.mw.RequireUser)
		r.Get("/me", orm.MyOrders)
	})
}
