package auth

import (
	"knitcraft_server/lib"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
)

const csrfTTL = 24 * time.Hour

// HandleCSRF issues a CSRF token as a JS readable cookie and in the body.
func (ar *AuthRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := lib.GenerateCSRFToken()
	if err != nil {
		ar.logger.Error("Failed to generate CSRF token", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to generate CSRF token"),
			gecho.Send(),
		)
		return
	}

	lib.SetCSRFCookie(token, time.Now().Add(csrfTTL), w)

	gecho.Success(w,
		gecho.WithData(map[string]string{
			"csrfToken": token,
		}),
		gecho.Send(),
	)
}
