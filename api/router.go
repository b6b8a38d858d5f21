package api

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/config"
	"knitcraft_server/services"
	"knitcraft_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

const defaultMaxBodyBytes = 1 << 20

// coreMiddleware runs first on every request. chi's RealIP is not part of it:
// the rate limiter resolves the client address from trusted proxy hops only.
var coreMiddleware = chi.Middlewares{chiware.RequestID, chiware.Recoverer}

func App(cfg *structs.Config, sm *services.ServiceManager) chi.Router {
	r := chi.NewRouter()

	// create loggers
	logLevel := gecho.ParseLogLevel(config.GetLogLevel())
	mwLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(false), gecho.WithLogLevel(logLevel)))
	standardLogger := gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(true), gecho.WithLogLevel(logLevel)))

	mw := middleware.NewMiddleware(cfg, mwLogger, sm.AuthService, sm.CacheService)

	maxBody := cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	r.Use(coreMiddleware...)

	// Limits & security
	r.Use(mw.BodyLimit(maxBody))
	r.Use(mw.SecurityHeaders())

	// Observability
	r.Use(mw.Logger())
	r.Use(middleware.MetricsMiddleware)

	// CORS (must be before auth / csrf)
	r.Use(mw.SetupCORS().Handler)
	r.Use(mw.RateLimitMiddleware())
	r.Use(mw.Authenticate)

	NewRouterManager(standardLogger, cfg, sm, mw).RegisterRoutes(r)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		gecho.Success(w,
			gecho.WithMessage("Welcome to the "+cfg.Server.AppName+" API"),
			gecho.Send(),
		)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gecho.NotFound(w,
			gecho.WithMessage("Route not found"),
			gecho.Send(),
		)
	})

	return r
}
