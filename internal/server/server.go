package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"doclint/internal/driver"
	"doclint/internal/trace"
)

// DefaultMaxUpload is the largest accepted document.
const DefaultMaxUpload = 50 << 20

// healthStatus is what liveness probes expect to see.
var healthStatus = gin.H{"status": "Service is healthy !"}

// PDFRenderer converts a markdown report to PDF.
type PDFRenderer interface {
	MarkdownToPDF(ctx context.Context, markdown []byte) ([]byte, error)
}

// Config configures the HTTP API.
type Config struct {
	Addr      string
	MaxUpload int64 // bytes; 0 -> DefaultMaxUpload
	Tracer    trace.Tracer
	// ShutdownTimeout bounds graceful shutdown; 0 -> 10s.
	ShutdownTimeout time.Duration
}

// Server is the lint HTTP API.
type Server struct {
	cfg      Config
	runner   *driver.Runner
	renderer PDFRenderer
	metrics  *metrics
	engine   *gin.Engine
}

// New wires the routes. renderer may be nil; PDF requests then fail with
// gotenberg_not_configured.
func New(runner *driver.Runner, renderer PDFRenderer, cfg Config) *Server {
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = DefaultMaxUpload
	}
	if cfg.Tracer == nil {
		cfg.Tracer = trace.Nop
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		renderer: renderer,
		metrics:  newMetrics(),
		engine:   gin.New(),
	}
	s.engine.MaxMultipartMemory = 8 << 20
	s.engine.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		abortError(c, http.StatusInternalServerError, codeUnexpected,
			fmt.Sprintf("Unexpected error: %v", rec), nil)
	}), s.traceRequests())

	s.engine.GET("/", health)
	s.engine.GET("/health-check", health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	api := s.engine.Group("/api/v1")
	api.POST("/lint-docx-template", s.lintTemplate)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	trace.Point(s.cfg.Tracer, trace.ScopeDriver, "serve", "listening on "+s.cfg.Addr, 0)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, healthStatus)
}

// traceRequests opens a driver-scope span per request and carries the
// tracer on the request context.
func (s *Server) traceRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.Begin(s.cfg.Tracer, trace.ScopeDriver, c.Request.Method+" "+c.FullPath(), 0)
		ctx := trace.WithTracer(c.Request.Context(), s.cfg.Tracer)
		ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		span.WithExtra("status", fmt.Sprint(c.Writer.Status())).End("")
	}
}
