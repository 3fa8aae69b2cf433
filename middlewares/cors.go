// Package middlewares for middleware between api and backend
package middlewares

import (
	"net/http"
	"strings"
)

// EnableCors enables cors middleware for the configured origins
func EnableCors(origins []string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			setupCorsResponse(w, r, origins)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}

func setupCorsResponse(w http.ResponseWriter, req *http.Request, origins []string) {
	w.Header().Set("Access-Control-Allow-Origin", allowedOrigin(origins, req.Header.Get("Origin")))
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")
}

func allowedOrigin(origins []string, requestOrigin string) string {
	for _, origin := range origins {
		if origin == "*" {
			return "*"
		}
		if strings.EqualFold(origin, requestOrigin) {
			return origin
		}
	}
	return "null"
}
