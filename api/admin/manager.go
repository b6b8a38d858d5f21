package admin

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger             *gecho.Logger
	productService     *services.ProductService
	orderService       *services.OrderService
	reviewService      *services.ReviewService
	customOrderService *services.CustomOrderService
	contentService     *services.ContentService
	mw                 *middleware.Middleware
}

func NewAdminRoutesManager(sm *services.ServiceManager, logger *gecho.Logger, mw *middleware.Middleware) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:             logger,
		productService:     sm.ProductService,
		orderService:       sm.OrderService,
		reviewService:      sm.ReviewService,
		customOrderService: sm.CustomOrderService,
		contentService:     sm.ContentService,
		mw:                 mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.RequireAdmin)

		r.Get("/stats", ar.GetStats)
		r.Get("/products", ar.ListProducts)
		r.Get("/products/{id}", ar.GetProduct)
		r.Get("/products/{id}/variants", ar.ListVariants)
		r.Get("/orders", ar.ListOrders)
		r.Get("/orders/{id}", ar.GetOrder)
		r.Get("/reviews", ar.ListReviews)
		r.Get("/bespoke", ar.ListCustomOrders)
		r.Get("/about", ar.GetAbout)
		r.Get("/contact", ar.ListContactMessages)

		// Mutations are CSRF protected
		r.Group(func(r chi.Router) {
			r.Use(ar.mw.CSRFMiddleware())

			r.Post("/products", ar.CreateProduct)
			r.Put("/products/{id}", ar.UpdateProduct)
			r.Delete("/products/{id}", ar.DeleteProduct)
			r.Post("/products/{id}/variants", ar.CreateVariant)
			r.Put("/products/{id}/variants/{variantId}", ar.UpdateVariant)
			r.Delete("/products/{id}/variants/{variantId}", ar.DeleteVariant)

			r.Put("/orders/{id}", ar.UpdateOrder)

			r.Put("/reviews/{id}", ar.UpdateReview)
			r.Delete("/reviews/{id}", ar.DeleteReview)

			r.Put("/bespoke/{id}", ar.UpdateCustomOrder)

			r.Post("/about", ar.UpdateAbout)
			r.Put("/about", ar.UpdateAbout)

			r.Put("/contact/{id}/read", ar.MarkContactMessageRead)
		})
	})
}
