package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/julianstephens/habyss/internal/logger"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routeLabel uses the mux path template so habit ids do not explode the
// label cardinality.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}

func (s *Server) monitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(ww, r)

		s.metrics.observeRequest(routeLabel(r), r.Method, ww.statusCode, time.Since(start).Seconds())
	})
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(clientIP(r, s.opts.TrustProxy)) {
			s.metrics.rateLimited.Inc()
			respondWithError(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) maxBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// basicAuth protects /metrics. Without configured credentials the endpoint
// is left open, which only makes sense on a loopback address.
func (s *Server) basicAuth(next http.Handler) http.Handler {
	if s.opts.MetricsUser == "" && s.opts.MetricsPass == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.opts.MetricsUser)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(s.opts.MetricsPass)) != 1 {
			s.metrics.authRejections.Inc()
			w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoveryLogger adapts the package logger for handlers.RecoveryHandler.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	logger.Error("Recovered from panic in handler", "panic", fmt.Sprint(v...))
}
