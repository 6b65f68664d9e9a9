package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes caps how much of an unread body is discarded, so an abandoned
// photo upload does not keep the handler goroutine busy.
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest discards what the handler left unread and closes the body,
// letting the connection be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil || r.Body == http.NoBody {
				return
			}
			_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
			_ = r.Body.Close()
		})
	}
}
