package middlewares

import (
	"net/http"
	"time"

	"github.com/labstack/gommon/log"
)

func SetContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// RequestLogMiddleware logs method, path and latency of every request.
func RequestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Infof("[HTTP] %s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
