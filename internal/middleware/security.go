package middleware

import (
	"net/http"
	"strconv"
)

// SecurityHeadersConfig configures the security headers set on every response.
type SecurityHeadersConfig struct {
	// FrameOptions sets X-Frame-Options. Default: DENY.
	FrameOptions string

	// ContentTypeNosniff sets X-Content-Type-Options: nosniff. Default: true.
	ContentTypeNosniff bool

	// ContentSecurityPolicy sets Content-Security-Policy. The API serves
	// JSON only, so the default forbids loading anything.
	ContentSecurityPolicy string

	// ReferrerPolicy sets Referrer-Policy. Default: no-referrer.
	ReferrerPolicy string

	// HSTSMaxAge sets Strict-Transport-Security max-age in seconds.
	// Set to 0 to disable HSTS (development).
	HSTSMaxAge int

	// HSTSIncludeSubdomains includes subdomains in HSTS. Default: true.
	HSTSIncludeSubdomains bool
}

// DefaultSecurityHeadersConfig returns the defaults for a JSON API.
func DefaultSecurityHeadersConfig() SecurityHeadersConfig {
	return SecurityHeadersConfig{
		FrameOptions:          "DENY",
		ContentTypeNosniff:    true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubdomains: true,
	}
}

// SecurityHeaders adds security headers to all responses.
func SecurityHeaders(config SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.FrameOptions != "" {
				w.Header().Set("X-Frame-Options", config.FrameOptions)
			}
			if config.ContentTypeNosniff {
				w.Header().Set("X-Content-Type-Options", "nosniff")
			}
			if config.ContentSecurityPolicy != "" {
				w.Header().Set("Content-Security-Policy", config.ContentSecurityPolicy)
			}
			if config.ReferrerPolicy != "" {
				w.Header().Set("Referrer-Policy", config.ReferrerPolicy)
			}
			if config.HSTSMaxAge > 0 {
				hsts := "max-age=" + strconv.Itoa(config.HSTSMaxAge)
				if config.HSTSIncludeSubdomains {
					hsts += "; includeSubDomains"
				}
				w.Header().Set("Strict-Transport-Security", hsts)
			}

			next.ServeHTTP(w, r)
		})
	}
}
