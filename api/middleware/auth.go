package middleware

import (
	"context"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const PrincipalContextKey contextKey = "principal"

// Authenticate attaches the caller's principal when a valid access cookie is
// present. Requests without one pass through as guests.
func (mw *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := lib.GetCookieValue(lib.AccessCookieName, r)
		if err != nil || token == "" {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := mw.authService.Authenticate(token)
		if err != nil {
			mw.logger.Debug("Ignoring invalid access token", gecho.Field("error", err))
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects requests without an authenticated principal.
// Must be used after Authenticate.
func (mw *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			gecho.Unauthorized(w, gecho.WithMessage("Authentication required"), gecho.Send())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose principal is missing or not an admin.
// Must be used after Authenticate.
func (mw *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			gecho.Unauthorized(w, gecho.WithMessage("Authentication required"), gecho.Send())
			return
		}
		if !principal.IsAdmin() {
			mw.logger.Warn("Non-admin user attempted to access admin route",
				gecho.Field("user_id", principal.UserID),
				gecho.Field("role", principal.Role),
			)
			gecho.Unauthorized(w, gecho.WithMessage("Admin access required"), gecho.Send())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext returns the principal attached by Authenticate.
func PrincipalFromContext(ctx context.Context) (*structs.Principal, bool) {
	principal, ok := ctx.Value(PrincipalContextKey).(*structs.Principal)
	return principal, ok && principal != nil
}

// WithPrincipal returns a copy of ctx carrying principal.
func WithPrincipal(ctx context.Context, principal *structs.Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, principal)
}
