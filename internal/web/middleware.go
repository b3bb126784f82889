package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tirta-iot/tirta/internal/auth"
)

type contextKey string

const usernameContextKey contextKey = "username"

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		s.logger.Debugf("[web] %s %s -> %d (%v)", r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

// requireAPIKey guards the device routes with the pre-shared key carried
// in the X-API-Key header.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != s.config.Device.APIKey {
			s.logger.Warnf("[web] rejected device request from %s: bad API key", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSession guards the dashboard routes with a bearer session token.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		username, err := auth.ParseToken(s.config.Auth.JWTSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}

		ctx := context.WithValue(r.Context(), usernameContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
