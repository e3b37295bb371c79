// Package api serves the sawiku JSON API over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sawiku/internal/config"
	"sawiku/internal/sawi"
)

const shutdownTimeout = 10 * time.Second

// Server routes HTTP requests to the service layer.
type Server struct {
	echo    *echo.Echo
	service *sawi.Service
	blobs   sawi.BlobStore
	store   sessions.Store
	cfg     config.ServerConfig
	logger  *slog.Logger
	metrics *Metrics
}

// NewServer creates a Server with all routes registered.
func NewServer(service *sawi.Service, blobs sawi.BlobStore, cfg config.ServerConfig, logger *slog.Logger) (*Server, error) {
	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}
	metrics, err := NewMetrics()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		service: service,
		blobs:   blobs,
		store:   store,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(metrics.Middleware())
	if cfg.MaxUploadBytes > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.MaxUploadBytes)))
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	v1 := s.echo.Group("/api/v1")

	v1.POST("/auth/signup", s.signUp)
	v1.POST("/auth/signin", s.signIn)
	v1.POST("/auth/signout", s.signOut)

	authed := v1.Group("", s.requireSession)
	authed.GET("/auth/me", s.me)

	authed.GET("/plants", s.listPlants)
	authed.POST("/plants", s.addPlant)
	authed.GET("/plants/:id", s.plantOverview)
	authed.DELETE("/plants/:id", s.deletePlant)

	authed.POST("/plants/:id/water", s.waterPlant)
	authed.GET("/plants/:id/waterings", s.wateringLogs)

	authed.GET("/plants/:id/report-form", s.reportForm)
	authed.POST("/plants/:id/reports", s.submitReport)
	authed.GET("/plants/:id/reports", s.growthReports)

	authed.GET("/photos/*", s.photo)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Listen)
		errCh <- s.echo.Start(s.cfg.Listen)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
