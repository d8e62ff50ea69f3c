package httpserver

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"tasktracker/internal/token"
)

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging returns middleware that emits one structured line per request.
// No payloads are logged, only metadata.
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

// Recover returns middleware that converts handler panics into 500s.
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticate returns middleware that resolves a bearer token into an
// identity on the request context. Requests without a valid token proceed
// with a nil identity; the service guards decide what that means.
func Authenticate(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := bearerToken(r); ok {
				if ident, err := tokens.Validate(raw); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), ident))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
		if t := strings.TrimSpace(v[7:]); t != "" {
			return t, true
		}
	}
	return "", false
}
