// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stwalsh4118/kodiserv/internal/api"
	"github.com/stwalsh4118/kodiserv/internal/config"
	"github.com/stwalsh4118/kodiserv/internal/db"
	"github.com/stwalsh4118/kodiserv/internal/history"
	"github.com/stwalsh4118/kodiserv/internal/kodi"
	"github.com/stwalsh4118/kodiserv/internal/library"
	"github.com/stwalsh4118/kodiserv/internal/logger"
	"github.com/stwalsh4118/kodiserv/internal/metrics"
	"github.com/stwalsh4118/kodiserv/internal/middleware"
	"github.com/stwalsh4118/kodiserv/internal/nowplaying"
	"github.com/stwalsh4118/kodiserv/internal/playback"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	db       *db.DB
	repos    *db.Repositories
	kodi     *kodi.Client
	resolver *nowplaying.Resolver
	library  *library.Service
	playback *playback.Service
	poller   *history.Poller
	registry *prometheus.Registry
	router   *gin.Engine
	server   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)

	client := kodi.NewClient(cfg.Kodi.URL, cfg.Kodi.Timeout)
	if cfg.Kodi.Username != "" {
		client.WithBasicAuth(cfg.Kodi.Username, cfg.Kodi.Password)
	}

	resolver := nowplaying.NewResolver(client, nowplaying.Options{
		Threshold: cfg.NowPlaying.Threshold,
		Timeout:   cfg.NowPlaying.Timeout,
	})
	lib := library.NewService(client, library.Options{
		FuzzyMatch: cfg.Library.FuzzyMatch,
		Cutoff:     cfg.Library.Cutoff,
		MaxResults: cfg.Library.MaxResults,
	})

	var poller *history.Poller
	if cfg.History.Enabled {
		poller = history.NewPoller(resolver, history.NewRecorder(repos.History), cfg.History.Interval)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Register(registry)

	s := &Server{
		config:   cfg,
		db:       database,
		repos:    repos,
		kodi:     client,
		resolver: resolver,
		library:  lib,
		playback: playback.NewService(client, lib),
		poller:   poller,
		registry: registry,
	}
	s.setupRouter()
	return s
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(corsConfig()))

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	apiGroup := s.router.Group("/api")
	api.SetupHealthRoutes(apiGroup, s.db, s.kodi)

	authed := apiGroup.Group("", middleware.KeyAuth(s.config.Server.Key))
	api.SetupLibraryRoutes(authed, s.library, s.config.Server.Style)
	api.SetupNowPlayingRoutes(authed, s.resolver)
	api.SetupHistoryRoutes(authed, s.repos)

	commands := authed.Group("", middleware.RateLimit(s.config.Server.RateLimit.RPS, s.config.Server.RateLimit.Burst))
	api.SetupPlaybackRoutes(commands, s.playback)
}

// corsConfig allows any origin to send the Auth-Key header
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AddAllowHeaders(middleware.AuthHeader)
	return cfg
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the history poller and the HTTP server
func (s *Server) Start() error {
	if s.poller != nil {
		if err := s.poller.Start(); err != nil {
			return fmt.Errorf("failed to start history poller: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Str("kodi_url", s.config.Kodi.URL).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.poller != nil {
		s.poller.Stop()
	}

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
