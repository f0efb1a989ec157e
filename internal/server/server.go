// Package server exposes the funnel calculator over HTTP: an HTML form with
// the bar chart and cost panel, plus a small JSON API.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/funnel-cli/internal/config"
	"github.com/sells-group/funnel-cli/internal/funnel"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

// Observer receives calculation and request events, typically a
// monitoring.Recorder.
type Observer interface {
	ObserveCalculation(source string, res funnel.Result)
	ObserveRequest(method, route string, status int)
}

type nopObserver struct{}

func (nopObserver) ObserveCalculation(string, funnel.Result) {}
func (nopObserver) ObserveRequest(string, string, int)       {}

// Options configures a Server. Formatter, Observer, Metrics and Logger are
// optional.
type Options struct {
	Config    config.ServerConfig
	Formatter *funnel.Formatter
	Observer  Observer
	Metrics   http.Handler
	Logger    *zap.Logger
}

// Server serves the calculator page and API.
type Server struct {
	cfg     config.ServerConfig
	fmt     *funnel.Formatter
	obs     Observer
	metrics http.Handler
	log     *zap.Logger
	tmpl    *template.Template
	limiter *rate.Limiter
}

// New builds a Server from opts.
func New(opts Options) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, eris.Wrap(err, "server: parse templates")
	}

	s := &Server{
		cfg:     opts.Config,
		fmt:     opts.Formatter,
		obs:     opts.Observer,
		metrics: opts.Metrics,
		log:     opts.Logger,
		tmpl:    tmpl,
	}
	if s.fmt == nil {
		s.fmt = funnel.DefaultFormatter()
	}
	if s.obs == nil {
		s.obs = nopObserver{}
	}
	if s.log == nil {
		s.log = zap.L()
	}

	rps, burst := s.cfg.RateLimitRPS, s.cfg.RateLimitBurst
	if rps <= 0 {
		rps = 20
	}
	if burst <= 0 {
		burst = 40
	}
	s.limiter = rate.NewLimiter(rate.Limit(rps), burst)

	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(s.limiter))

		r.Get("/", s.handleIndex)
		r.Post("/calculate", s.handleCalculateForm)

		r.Route("/api", func(r chi.Router) {
			r.Post("/calculate", s.handleCalculateAPI)
			r.Post("/normalize", s.handleNormalize)
			r.Get("/benchmarks", s.handleBenchmarks)
		})
	})

	return r
}

func (s *Server) corsOrigins() []string {
	if len(s.cfg.CORSOrigins) == 0 {
		return []string{"*"}
	}
	return s.cfg.CORSOrigins
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	timeout := time.Duration(s.cfg.ReadHeaderTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: timeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return eris.Wrap(srv.Shutdown(shutdownCtx), "server: shutdown")
	})

	return g.Wait()
}
