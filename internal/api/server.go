// Package api serves habits, completions and the derived statistics as JSON
// over HTTP for local UI clients.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/julianstephens/habyss/internal/constants"
	"github.com/julianstephens/habyss/internal/logger"
	"github.com/julianstephens/habyss/internal/storage"
	"github.com/julianstephens/habyss/internal/tracker"
)

type Options struct {
	Addr           string
	RateLimit      int // requests per second per client
	RateBurst      int
	MetricsUser    string
	MetricsPass    string
	WindowDays     int // default consistency window; 0 reads the stored setting
	AllowedOrigins []string
	MaxBodyBytes   int64
	TrustProxy     bool // key rate limiting on X-Forwarded-For
}

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = constants.DefaultHTTPAddr
	}
	if o.RateLimit <= 0 {
		o.RateLimit = constants.DefaultRateLimit
	}
	if o.RateBurst <= 0 {
		o.RateBurst = constants.DefaultRateBurst
	}
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"*"}
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = constants.MaxRequestBodyBytes
	}
	return o
}

type Server struct {
	store   storage.Provider
	tracker *tracker.Tracker
	opts    Options
	metrics *metrics
	limiter *rateLimiter
	router  *mux.Router
}

func New(store storage.Provider, tr *tracker.Tracker, opts Options) *Server {
	opts = opts.withDefaults()
	s := &Server{
		store:   store,
		tracker: tr,
		opts:    opts,
		metrics: newMetrics(),
		limiter: newRateLimiter(opts.RateLimit, opts.RateBurst),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	standard := r.PathPrefix("/").Subrouter()
	standard.Use(s.rateLimitMiddleware)
	standard.Use(s.monitorMiddleware)

	standard.Handle("/metrics", s.basicAuth(s.metrics.handler())).Methods("GET")
	standard.HandleFunc("/health", s.health).Methods("GET")

	api := standard.PathPrefix("/api/v1").Subrouter()
	api.Use(s.maxBodyMiddleware)

	api.HandleFunc("/habits", s.listHabits).Methods("GET")
	api.HandleFunc("/habits", s.createHabit).Methods("POST")
	api.HandleFunc("/habits/{id}", s.getHabit).Methods("GET")
	api.HandleFunc("/habits/{id}", s.deleteHabit).Methods("DELETE")
	api.HandleFunc("/habits/{id}/archive", s.archiveHabit).Methods("POST")
	api.HandleFunc("/habits/{id}/unarchive", s.unarchiveHabit).Methods("POST")
	api.HandleFunc("/habits/{id}/toggle", s.toggleHabit).Methods("POST")
	api.HandleFunc("/habits/{id}/stats", s.habitStats).Methods("GET")
	api.HandleFunc("/habits/{id}/completions", s.habitCompletions).Methods("GET")
	api.HandleFunc("/today", s.today).Methods("GET")
	api.HandleFunc("/stats", s.overview).Methods("GET")
	api.HandleFunc("/goals/{id}/progress", s.goalProgress).Methods("GET")

	s.router = r
}

// Handler returns the router wrapped in recovery, CORS and access logging.
func (s *Server) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.opts.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.ExposedHeaders([]string{"Content-Length"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(false),
	)
	return recovery(cors(handlers.CombinedLoggingHandler(logger.Writer(), s.router)))
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for up to constants.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  constants.RequestTimeout,
		WriteTimeout: 2 * constants.RequestTimeout,
		IdleTimeout:  120 * time.Second,
	}

	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	go s.limiter.run(limiterCtx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP API", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	logger.Info("HTTP API stopped")
	return nil
}
