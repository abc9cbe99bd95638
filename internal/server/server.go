package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shaharia-lab/lexicon/internal/api"
	"github.com/shaharia-lab/lexicon/internal/metrics"
)

// DefaultShutdownTimeout bounds the graceful part of a shutdown.
const DefaultShutdownTimeout = 5 * time.Second

// Config holds the listener settings of the Server.
type Config struct {
	Port int

	// ShutdownTimeout is how long in-flight requests get to finish once the
	// server stops. Requests still running afterwards are canceled. Zero
	// means DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// AllowedOrigins enables CORS on /api for the listed origins. Empty
	// means same-origin only.
	AllowedOrigins []string
}

// Server is the HTTP server for the flashcard app and its Notion relay.
type Server struct {
	assets          fs.FS
	logger          *slog.Logger
	handler         http.Handler
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// New creates a new Server serving assets at / and the API under /api.
func New(apiSrv *api.Server, assets fs.FS, collector *metrics.Collector, cfg Config, logger *slog.Logger) *Server {
	s := &Server{
		assets:          assets,
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = DefaultShutdownTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.GetHead)
	r.Use(s.requestLogger)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", collector.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		if len(cfg.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: cfg.AllowedOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
		}
		apiSrv.Mount(r)
	})

	// Entry document + static files
	r.Get("/", s.indexHandler)
	r.Get("/*", s.staticHandler())

	s.handler = r
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run starts the HTTP server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully. Requests that outlive the shutdown timeout have their context
// canceled, which aborts their outbound Notion call, and the server still
// returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	reqCtx, cancelRequests := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelRequests()
	s.httpServer.BaseContext = func(net.Listener) context.Context { return reqCtx }

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.shutdown(cancelRequests)
	case err := <-errCh:
		return err
	}
}

func (s *Server) shutdown(cancelRequests context.CancelFunc) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down server")

	err := s.httpServer.Shutdown(shutdownCtx)
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	s.logger.Warn("requests still running after shutdown timeout, canceling them",
		slog.Duration("timeout", s.shutdownTimeout))
	cancelRequests()
	if err := s.httpServer.Close(); err != nil {
		return fmt.Errorf("closing server: %w", err)
	}
	return nil
}

// requestLogger is a chi middleware that logs each incoming request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// indexHandler serves the entry document regardless of credential state.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, s.assets, "index.html")
}

// staticHandler serves files from the asset filesystem. Unknown paths are 404.
func (s *Server) staticHandler() http.HandlerFunc {
	fileServer := http.FileServer(http.FS(s.assets))
	return fileServer.ServeHTTP
}
