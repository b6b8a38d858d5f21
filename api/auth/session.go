package auth

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/services"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func setSessionCookies(tokens *services.TokenPair, w http.ResponseWriter) {
	lib.SetCookie(lib.AccessCookieName, tokens.AccessToken, tokens.AccessExpiresAt, w)
	lib.SetCookie(lib.RefreshCookieName, tokens.RefreshToken, tokens.RefreshExpiresAt, w)
}

func clearSessionCookies(w http.ResponseWriter) {
	lib.ClearCookie(lib.AccessCookieName, w)
	lib.ClearCookie(lib.RefreshCookieName, w)
}

// startSession issues tokens for user and answers with the user record.
func (ar *AuthRoutesManager) startSession(w http.ResponseWriter, user *tables.User, message string) {
	tokens, err := ar.authService.IssueTokens(user)
	if err != nil {
		handling.HandleError(err, "Unable to complete sign in. Please try again", ar.logger, w)
		return
	}
	setSessionCookies(tokens, w)

	gecho.Success(w,
		gecho.WithMessage(message),
		gecho.WithData(user),
		gecho.Send(),
	)
}

func (ar *AuthRoutesManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.RegisterRequest](r)
	if err != nil {
		handling.RespondError(err, "Please check your registration details", ar.logger, w)
		return
	}

	user, err := ar.authService.Register(r.Context(), body)
	if err != nil {
		if lib.IsUniqueViolation(err) {
			ar.logger.Info("Registration for existing account", gecho.Field("email", body.Email))
		}
		handling.RespondError(err, "Registration failed", ar.logger, w)
		return
	}

	ar.startSession(w, user, "Registration successful")
}

func (ar *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		handling.RespondError(err, "Please check your login information and try again", ar.logger, w)
		return
	}

	user, err := ar.authService.Login(r.Context(), body)
	if err != nil {
		ar.logger.Warn("Login failed", gecho.Field("error", err))
		handling.RespondError(err, "Login failed", ar.logger, w)
		return
	}

	ar.startSession(w, user, "Login successful")
}

// HandleLogout revokes both session tokens. It succeeds without a session.
func (ar *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	access, _ := lib.GetCookieValue(lib.AccessCookieName, r)
	refresh, _ := lib.GetCookieValue(lib.RefreshCookieName, r)

	ar.authService.Logout(access, refresh)
	clearSessionCookies(w)

	gecho.Success(w,
		gecho.WithMessage("Logged out"),
		gecho.Send(),
	)
}

func (ar *AuthRoutesManager) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refresh, err := lib.GetCookieValue(lib.RefreshCookieName, r)
	if err != nil || refresh == "" {
		handling.RespondError(lib.ErrUnauthorized, "Refresh", ar.logger, w)
		return
	}

	user, tokens, err := ar.authService.Refresh(r.Context(), refresh)
	if err != nil {
		clearSessionCookies(w)
		handling.RespondError(err, "Refresh failed", ar.logger, w)
		return
	}
	setSessionCookies(tokens, w)

	gecho.Success(w,
		gecho.WithData(user),
		gecho.Send(),
	)
}

func (ar *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	user, err := ar.authService.GetUser(r.Context(), principal.UserID)
	if err != nil {
		handling.RespondError(err, "User", ar.logger, w)
		return
	}
	user.PasswordHash = ""

	gecho.Success(w,
		gecho.WithData(user),
		gecho.Send(),
	)
}
