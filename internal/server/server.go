// Package server exposes the CV pipeline over HTTP.
//
// Every POST endpoint takes a CV file (YAML or JSON) as the request body.
// Exports of identical requests that overlap in time share one render.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	cv2pdf "github.com/alnah/go-cv2pdf"
)

// Server defaults.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 30 * time.Second
	readTimeout         = 30 * time.Second
	writeTimeout        = 5 * time.Minute // multi-page exports
)

// Pipeline is the CV pipeline the handlers drive. *cv2pdf.ConverterPool
// implements it.
type Pipeline interface {
	Plan(ctx context.Context, in cv2pdf.Input) (cv2pdf.PagePlan, error)
	Preview(ctx context.Context, in cv2pdf.Input) (*cv2pdf.Composition, error)
	Export(ctx context.Context, in cv2pdf.Input) (*cv2pdf.Artifact, error)
	MeasurePages(ctx context.Context, in cv2pdf.Input) (cv2pdf.Measurement, error)
}

var _ Pipeline = (*cv2pdf.ConverterPool)(nil)

// Config holds server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// Server is the HTTP front of a Pipeline.
type Server struct {
	pipeline Pipeline
	logger   *zap.Logger
	cfg      Config
	exports  singleflight.Group
	handler  http.Handler
}

// New creates a Server. A nil logger disables logging.
func New(p Pipeline, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{pipeline: p, logger: logger, cfg: cfg}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	router := mux.NewRouter()
	router.Use(s.recoverPanics, s.logRequests)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/templates", s.handleTemplates).Methods(http.MethodGet)
	api.HandleFunc("/schema", s.handleSchema).Methods(http.MethodGet)
	api.HandleFunc("/preview", s.handlePreview).Methods(http.MethodPost)
	api.HandleFunc("/pages", s.handlePages).Methods(http.MethodPost)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodPost)
	api.HandleFunc("/lint", s.handleLint).Methods(http.MethodPost)

	// mux does not hand these down to subrouters.
	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	for _, r := range []*mux.Router{router, api} {
		r.NotFoundHandler = notFound
		r.MethodNotAllowedHandler = notAllowed
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Page-Count"},
		MaxAge:         300,
	})
	return c.Handler(router)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
