package server

import (
	"net/http"
	"slices"
	"strings"
)

// SecurityConfig controls response hardening and the request caps of the
// API.
type SecurityConfig struct {
	EnableCORS     bool
	AllowedOrigins []string // "*" allows any origin
	AllowedMethods []string

	// MaxSweepSteps bounds the steps parameter of /sweep; every step is a
	// full integer and fractional search.
	MaxSweepSteps int64
}

func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxSweepSteps:  100_000,
	}
}

// hardeningHeaders are sent on every response. The API only returns JSON,
// so nothing may be framed, sniffed or loaded from it.
var hardeningHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"X-XSS-Protection", "1; mode=block"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
}

// SecurityMiddleware sets the hardening headers and, with CORS enabled,
// answers preflight requests with 204 before they reach the rate limiter.
func SecurityMiddleware(cfg SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range hardeningHeaders {
			h.Set(kv[0], kv[1])
		}

		if cfg.EnableCORS {
			if origin := matchOrigin(cfg.AllowedOrigins, r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", "Content-Type, Accept")
				h.Set("Access-Control-Max-Age", "86400")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next(w, r)
	}
}

// matchOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when it is not allowed.
func matchOrigin(allowed []string, origin string) string {
	if slices.Contains(allowed, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(allowed, origin) {
		return origin
	}
	return ""
}
