package auth

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(logger *gecho.Logger, authService *services.AuthService, mw *middleware.Middleware) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		mw:          mw,
	}
}

func (ar *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		// Must be called before any of the POST routes below
		r.Get("/csrf", ar.HandleCSRF)

		r.Group(func(r chi.Router) {
			r.Use(ar.mw.CSRFMiddleware())
			r.Post("/register", ar.HandleRegister)
			r.Post("/login", ar.HandleLogin)
			r.Post("/logout", ar.HandleLogout)
			r.Post("/refresh", ar.HandleRefresh)
		})

		r.With(ar.mw.RequireUser).Get("/me", ar.HandleMe)
	})
}
