package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS creates a CORS middleware with the given allowed origins, backed by
// go-chi/cors so preflight caching, Vary headers, and
// wildcard-with-credentials rejection come for free.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           3600,
	})
}
