package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/cors"
)

// CORS allows the comma separated origins, or any origin when the list is empty.
func CORS(allowedOrigins string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", TraceIDHeader},
		ExposedHeaders:   []string{TraceIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		// browsers refuse a literal "*" alongside credentials, so echo the origin
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}

	return cors.Handler(opts)
}
