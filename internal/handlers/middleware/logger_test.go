package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logLine struct {
	level string
	msg   string
	attrs map[string]any
}

type recordingLogger struct {
	lines []logLine
}

func (l *recordingLogger) record(level string, msg string, args []any) {
	attrs := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		attrs[args[i].(string)] = args[i+1]
	}
	l.lines = append(l.lines, logLine{level: level, msg: msg, attrs: attrs})
}

func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func TestLoggerMiddleware(t *testing.T) {
	serve := func(t *testing.T, h http.HandlerFunc) *recordingLogger {
		t.Helper()
		l := &recordingLogger{}
		handler := chimw.RequestID(LoggerMiddleware(l)(h))

		r := httptest.NewRequest(http.MethodGet, "/api/movie?page=1", nil)
		handler.ServeHTTP(httptest.NewRecorder(), r)

		require.Len(t, l.lines, 1, "one line per request")
		return l
	}

	t.Run("success logged at info", func(t *testing.T) {
		l := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("hi"))
		})

		line := l.lines[0]
		assert.Equal(t, "info", line.level)
		assert.Equal(t, "HTTP request", line.msg)
		assert.Equal(t, "GET", line.attrs["method"])
		assert.Equal(t, "/api/movie", line.attrs["path"], "query string is not logged")
		assert.Equal(t, http.StatusTeapot, line.attrs["status"])
		assert.Equal(t, 2, line.attrs["bytes"])
		assert.NotEmpty(t, line.attrs["request_id"], "request id set by RequestID middleware")
		assert.Contains(t, line.attrs, "duration")
		assert.Contains(t, line.attrs, "remote")
	})

	t.Run("implicit ok status", func(t *testing.T) {
		l := serve(t, func(w http.ResponseWriter, r *http.Request) {})

		assert.Equal(t, http.StatusOK, l.lines[0].attrs["status"])
		assert.Equal(t, 0, l.lines[0].attrs["bytes"])
	})

	t.Run("server error logged at error", func(t *testing.T) {
		l := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		assert.Equal(t, "error", l.lines[0].level)
		assert.Equal(t, http.StatusInternalServerError, l.lines[0].attrs["status"])
	})
}
