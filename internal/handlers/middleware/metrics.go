package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type requestRecorder interface {
	RecordRequest(method string, route string, status int, seconds float64)
}

// Metrics records request duration and count by matched ServeMux pattern
// Must wrap the mux directly: the mux sets Pattern on the request it receives
func Metrics(m requestRecorder, skipRoutes ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(skipRoutes))
	for _, route := range skipRoutes {
		skip[route] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			if _, ok := skip[r.Pattern]; ok {
				return
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordRequest(r.Method, r.Pattern, status, time.Since(start).Seconds())
		})
	}
}
