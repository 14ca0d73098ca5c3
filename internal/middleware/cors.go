package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS admits the election API's browser callers. Bearer tokens travel in a header, never in
// cookies, so credentials stay disabled. Retry-After is exposed for rate-limited clients.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Retry-After"},
		MaxAge:         600,
	}).Handler
}
