// Package server exposes the assistant over HTTP for the browser extension and shop UIs.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/shop-assist/internal/certs"
	"github.com/Veraticus/shop-assist/internal/notify"
	"github.com/Veraticus/shop-assist/internal/reconcile"
	"github.com/Veraticus/shop-assist/internal/service"
	"github.com/Veraticus/shop-assist/internal/symptom"
)

// Config holds HTTP server configuration.
type Config struct {
	// TLS serves HTTPS with the manager's certificate when set.
	TLS  certs.Manager
	Host string
	Port int
}

// DefaultConfig returns the default listen address.
func DefaultConfig() *Config {
	return &Config{Host: "localhost", Port: 8787}
}

// Deps are the components the server routes to.
type Deps struct {
	Host        *reconcile.Host
	Matcher     *symptom.Matcher
	Store       service.Storage
	Broadcaster *notify.Broadcaster
	Gatherer    prometheus.Gatherer
}

// Server provides HTTP endpoints for shop-assist.
type Server struct {
	echo   *echo.Echo
	deps   Deps
	logger *slog.Logger
	config *Config

	heartbeat time.Duration

	// done is closed by Shutdown so open event streams end.
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new HTTP server.
func New(deps Deps, cfg *Config) (*Server, error) {
	if deps.Host == nil {
		return nil, errors.New("reconcile host cannot be nil")
	}
	if deps.Store == nil {
		return nil, errors.New("storage cannot be nil")
	}
	if deps.Matcher == nil {
		deps.Matcher = symptom.NewDefaultMatcher()
	}
	if deps.Broadcaster == nil {
		deps.Broadcaster = notify.NewBroadcaster()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	logger := slog.Default().With("component", "server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Debug("HTTP request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration", time.Since(start),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			return nil
		}
	})

	s := &Server{
		echo:      e,
		deps:      deps,
		logger:    logger,
		config:    cfg,
		heartbeat: 30 * time.Second,
		done:      make(chan struct{}),
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/observe", s.handleObserve)
	v1.GET("/events", s.handleEvents)

	v1.POST("/symptoms/match", s.handleMatch)
	v1.GET("/symptoms/categories", s.handleCategories)

	v1.GET("/jobs", s.handleSearchJobs)
	v1.GET("/jobs/pending", s.handlePendingJob)
	v1.POST("/jobs/:id/send", s.handleSendJob)

	v1.GET("/labor-rate-groups", s.handleListGroups)
	v1.PUT("/labor-rate-groups", s.handleReplaceGroups)
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server, or the HTTPS server when a certificate manager is configured.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if s.config.TLS == nil {
		s.logger.Info("Starting HTTP server", "addr", addr)
		return s.echo.Start(addr)
	}

	cert, err := s.config.TLS.GetOrCreateCertificate()
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	s.echo.TLSServer.Addr = addr
	s.echo.TLSServer.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	s.logger.Info("Starting HTTPS server", "addr", addr)
	return s.echo.StartServer(s.echo.TLSServer)
}

// Shutdown ends open event streams and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	s.stopOnce.Do(func() { close(s.done) })
	return s.echo.Shutdown(ctx)
}
