package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicRecovery turns a handler panic into a 500, counts it and marks the request span as failed.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				log.WithFields(log.Fields{
					"route":  routeName(req),
					"method": req.Method,
				}).Errorf("http: panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())

				span := trace.SpanFromContext(req.Context())
				span.SetStatus(codes.Error, fmt.Sprintf("panic: %v", r))

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				http.Error(respWriter, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
