// Package server hosts the dashboards over HTTP. Every request is one
// independent render pass: load the tables, recompute the page, draw the
// charts and write the response.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/YuminosukeSato/sfhousing/chart"
	"github.com/YuminosukeSato/sfhousing/dataset"
	"github.com/YuminosukeSato/sfhousing/pkg/config"
	"github.com/YuminosukeSato/sfhousing/pkg/errors"
	"github.com/YuminosukeSato/sfhousing/pkg/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Server renders the housing and ML pages.
type Server struct {
	cfg     *config.Config
	logger  log.Logger
	metrics *Metrics
	echarts chart.EChartsRenderer
	png     chart.PNGRenderer
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics replaces the metrics collectors.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithAssetsHost overrides where pages load echarts.min.js from.
func WithAssetsHost(host string) Option {
	return func(s *Server) {
		s.echarts.AssetsHost = host
	}
}

// New creates a server for cfg.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  log.GetLoggerWithName("server"),
		metrics: NewMetrics(),
		echarts: chart.EChartsRenderer{},
		png:     chart.NewPNGRenderer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)

	r.Get("/", s.handleHousing)
	r.Get("/ml", s.handleML)
	r.Get("/healthz", s.handleHealth)
	r.Get("/charts/{panel}.png", s.handleChartPNG)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/states", s.handleStates)
		r.Get("/counties", s.handleCounties)
	})
	return r
}

// Handler returns the HTTP handler of s.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", srv.Addr, "data_dir", s.cfg.Data.Dir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

// loader returns a fresh loader; tables are never shared between passes.
func (s *Server) loader(logger log.Logger) *dataset.Loader {
	return dataset.NewLoader(s.cfg.Data.Dir,
		dataset.WithFiles(s.cfg.Data.Files()),
		dataset.WithLogger(logger),
	)
}

// recoverer turns a panic outside a render pass into a 500.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := errors.SafeExecute("server."+r.URL.Path, func() error {
			next.ServeHTTP(w, r)
			return nil
		})
		if err != nil {
			s.logger.Error("request panicked", err,
				"request_id", middleware.GetReqID(r.Context()),
				log.ErrorCodeKey, log.ErrorInternal,
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}
