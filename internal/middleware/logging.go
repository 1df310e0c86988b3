package middleware

import (
	"bytes"
	"net/http"
	"time"

	"cross-country/runflow/internal/auth"
	"cross-country/runflow/internal/logging"
)

// maxLoggedBody caps the response body copied into debug logs
const maxLoggedBody = 4096

type respLogger struct {
	http.ResponseWriter
	status int
	buf    *bytes.Buffer
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	if room := maxLoggedBody - l.buf.Len(); room > 0 {
		if len(b) > room {
			l.buf.Write(b[:room])
		} else {
			l.buf.Write(b)
		}
	}
	return l.ResponseWriter.Write(b)
}

// Logging dumps each request and response body at debug level. Mounted in development only.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequest(auth.GetRequestID(r.Context()), r.URL.Path)
		log.Debugw("request received", "method", r.Method, "query", r.URL.RawQuery)

		lw := &respLogger{ResponseWriter: w, status: http.StatusOK, buf: &bytes.Buffer{}}

		start := time.Now()
		next.ServeHTTP(lw, r)

		log.Debugw("response sent",
			"status", lw.status,
			"duration", time.Since(start).String(),
			"body", lw.buf.String(),
		)
	})
}
