package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows browser clients from any origin. Credentials travel in the
// Authorization header, so cookies are not allowed.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})
}
