package middleware

import (
	"net/http"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	log "github.com/sirupsen/logrus"
)

// LogRequest traces every request once it is served, with the matched route and outcome.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			begin := time.Now()
			resp := &responseWriter{w, http.StatusOK}

			next.ServeHTTP(resp, r)

			ip, _ := pkg.ReadUserIP(r)
			entry := log.WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"route":  routeName(r),
				"status": resp.statusCode,
				"took":   time.Since(begin).String(),
				"ip":     ip,
				"ua":     r.Header.Get("User-Agent"),
			})
			if resp.statusCode >= http.StatusInternalServerError {
				entry.Warn(" <==== request failed")
				return
			}
			entry.Trace(" <==== request")
		})
	}
}
