package lib

import (
	"knitcraft_server/config"
	"net/http"
	"time"
)

const (
	AccessCookieName  = "kc_access"
	RefreshCookieName = "kc_refresh"
	CSRFCookieName    = "kc_csrf"
	CartCookieName    = "cart_id"
	HelpfulCookieName = "helpful_votes"
	CSRFHeaderName    = "X-CSRF-Token"
)

// baseCookie fills in path and the environment dependent attributes. In
// production the api and the storefront live on sibling subdomains, so the
// cookie is scoped to the shared domain and sent cross-site.
func baseCookie(name, value string) *http.Cookie {
	c := &http.Cookie{Name: name, Value: value, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
	if config.IsProduction() {
		c.SameSite = http.SameSiteNoneMode
		c.Secure = true
		c.Domain = config.GetConfig().Server.CookieDomain
	}
	return c
}

// SetCookie writes an HttpOnly cookie that expires at expiry.
func SetCookie(name, value string, expiry time.Time, w http.ResponseWriter) {
	c := baseCookie(name, value)
	c.Expires = expiry
	http.SetCookie(w, c)
}

// SetCSRFCookie writes the CSRF token where the storefront script can read it.
func SetCSRFCookie(value string, expiry time.Time, w http.ResponseWriter) {
	c := baseCookie(CSRFCookieName, value)
	c.Expires = expiry
	c.MaxAge = int(time.Until(expiry).Seconds())
	c.HttpOnly = false
	http.SetCookie(w, c)
}

func ClearCookie(name string, w http.ResponseWriter) {
	c := baseCookie(name, "")
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func GetCookieValue(name string, r *http.Request) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
