package middleware

import (
	"knitcraft_server/structs"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
)

// Authenticator turns an access token into the caller's principal.
type Authenticator interface {
	Authenticate(accessToken string) (*structs.Principal, error)
}

// RateCounter counts requests per client and endpoint inside a window.
type RateCounter interface {
	IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error)
}

type Middleware struct {
	cfg          *structs.Config
	logger       *gecho.Logger
	authService  Authenticator
	cacheService RateCounter
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, authService Authenticator, cacheService RateCounter) *Middleware {
	return &Middleware{
		cfg:          cfg,
		logger:       logger,
		authService:  authService,
		cacheService: cacheService,
	}
}

// Logger returns the request logging middleware.
func (mw *Middleware) Logger() func(next http.Handler) http.Handler {
	return gecho.Handlers.CreateLoggingMiddleware(mw.logger)
}
