package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig lets browser front ends on other origins call the API and read
// the batch headers on split responses.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers" mapstructure:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" mapstructure:"allow_credentials"`
	// MaxAge is how long, in seconds, browsers may cache a preflight.
	MaxAge int `yaml:"max_age" mapstructure:"max_age"`
}

// CORS echoes allowed origins and answers preflight requests with 204.
// Requests from other origins pass through without CORS headers.
func CORS(cfg *CORSConfig) Middleware {
	anyOrigin := slices.Contains(cfg.AllowedOrigins, "*")
	fixed := http.Header{}
	setJoined(fixed, "Access-Control-Allow-Methods", cfg.AllowedMethods)
	setJoined(fixed, "Access-Control-Allow-Headers", cfg.AllowedHeaders)
	setJoined(fixed, "Access-Control-Expose-Headers", cfg.ExposedHeaders)
	if cfg.AllowCredentials {
		fixed.Set("Access-Control-Allow-Credentials", "true")
	}
	if cfg.MaxAge > 0 {
		fixed.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (anyOrigin || slices.Contains(cfg.AllowedOrigins, origin)) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				for k, v := range fixed {
					h[k] = v
				}
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setJoined(h http.Header, key string, values []string) {
	if len(values) > 0 {
		h.Set(key, strings.Join(values, ", "))
	}
}
