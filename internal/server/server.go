// Package server exposes ranking sessions over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/pairrank/pkg/buildinfo"
	"github.com/matzehuels/pairrank/pkg/render/nodelink"
	"github.com/matzehuels/pairrank/pkg/session"
)

// maxBodyBytes bounds request bodies; an item list is the largest payload.
const maxBodyBytes = 1 << 20

// Options configures a [Server].
type Options struct {
	Logger   *log.Logger
	Renderer *nodelink.Renderer  // nil renders without a cache
	Gatherer prometheus.Gatherer // nil disables /metrics
	Detailed bool                // detailed graph labels

	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the session API for a [session.Manager].
type Server struct {
	manager  *session.Manager
	renderer *nodelink.Renderer
	gatherer prometheus.Gatherer
	logger   *log.Logger
	opts     Options
}

// New creates a server over m.
func New(m *session.Manager, opts Options) *Server {
	s := &Server{
		manager:  m,
		renderer: opts.Renderer,
		gatherer: opts.Gatherer,
		logger:   opts.Logger,
		opts:     opts,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.renderer == nil {
		s.renderer = &nodelink.Renderer{Logger: s.logger}
	}
	return s
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/", s.listSessions)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Get("/ranking", s.getRanking)
			r.Get("/next", s.getNext)
			r.Post("/comparisons", s.postComparison)
			r.Post("/skips", s.postSkip)
			r.Get("/graph.{format}", s.getGraph)
		})
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: s.opts.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", buildinfo.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}
