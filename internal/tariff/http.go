package tariff

import (
	"log/slog"
	"net/http"
)

// Handler wraps next so that each request is held before being served.
func (l *Layer) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := l.Hold(r.Context(), hostIP(r.RemoteAddr)); err != nil {
			slog.Debug("request cancelled while delayed", "path", r.URL.Path, "error", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
