// Package cookie provides small helpers for the storefront's cookies: the
// authenticated session token and the anonymous cart token.
package cookie

import "net/http"

// Config holds cookie security settings shared by all storefront cookies.
type Config struct {
	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

// NewConfig creates a new cookie configuration.
func NewConfig(secure bool) *Config {
	return &Config{Secure: secure}
}

// Set writes a cookie with the storefront defaults: path "/", HttpOnly,
// SameSite=Lax, Secure per config.
func (c *Config) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes a cookie by setting MaxAge to -1.
func (c *Config) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Cookie names used throughout the application.
const (
	// SessionCookieName carries the JWT for authenticated users.
	SessionCookieName = "lavka_session"

	// CartCookieName carries the anonymous cart token for guests.
	CartCookieName = "lavka_cart"
)
