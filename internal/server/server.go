package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/sw33tLie/moviescope/pkg/compare"
	"github.com/sw33tLie/moviescope/pkg/movieapi"
)

const defaultCheckTimeout = 5 * time.Second

// Comparer runs one price comparison. *compare.Engine satisfies it.
type Comparer interface {
	Run(ctx context.Context) (*compare.Report, error)
}

type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type Config struct {
	Engine Comparer
	// Hosts are probed by the readiness check, one check per host.
	Hosts []string
	// Prober sends the readiness probes. Nil skips the upstream checks.
	Prober       movieapi.Sender
	CheckTimeout time.Duration
	Log          Logger
}

type Server struct {
	engine       Comparer
	hosts        []string
	prober       movieapi.Sender
	checkTimeout time.Duration
	log          Logger
}

func New(cfg Config) *Server {
	s := &Server{
		engine:       cfg.Engine,
		hosts:        cfg.Hosts,
		prober:       cfg.Prober,
		checkTimeout: cfg.CheckTimeout,
		log:          cfg.Log,
	}
	if s.checkTimeout <= 0 {
		s.checkTimeout = defaultCheckTimeout
	}
	if s.log == nil {
		s.log = movieapi.NopLogger{}
	}
	return s
}

// Handler returns the full HTTP handler: routes, panic recovery and CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// The bundled UI calls /api/Movies; both spellings are served.
	mux.HandleFunc("GET /api/movies", s.handleMovies)
	mux.HandleFunc("GET /api/Movies", s.handleMovies)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.handleHealth)
	mux.HandleFunc("GET /health/live", s.handleLive)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	})

	return corsHandler.Handler(s.recoverer(mux))
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Infof("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.log.Errorf("An unhandled panic occurred serving %s %s: %v", r.Method, r.URL.Path, rec)
				writeFailure(w, http.StatusInternalServerError, "An error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
