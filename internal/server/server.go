package server

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Zachdehooge/weather-map/internal/config"
	"github.com/Zachdehooge/weather-map/internal/generator"
	"github.com/Zachdehooge/weather-map/internal/metrics"
	"github.com/Zachdehooge/weather-map/internal/session"
	"github.com/Zachdehooge/weather-map/internal/startup"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// loader is the part of startup.Loader the server reads.
type loader interface {
	Status() (startup.Status, map[string]string)
	Snapshot() (*startup.Snapshot, bool)
}

type Server struct {
	echo    *echo.Echo
	config  *config.Config
	catalog *config.Catalog

	loader     loader
	sessions   *session.Store
	registry   *prometheus.Registry
	navMetrics *metrics.NavigationMetrics

	startTime time.Time
}

func NewServer(cfg *config.Config, catalog *config.Catalog, l loader, sessions *session.Store, reg *prometheus.Registry, nav *metrics.NavigationMetrics) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:       e,
		config:     cfg,
		catalog:    catalog,
		loader:     l,
		sessions:   sessions,
		registry:   reg,
		navMetrics: nav,
		startTime:  time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP lets tests drive the router directly.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) handleMap(c echo.Context) error {
	var buf bytes.Buffer
	// API calls are same-origin when the page is served by this server
	if err := generator.Render(&buf, generator.NewPageData(s.catalog, "")); err != nil {
		slog.Error("Template execution failed", "path", c.Request().URL.Path, "error", err)
		return c.String(http.StatusInternalServerError, "Failed to render page")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
