package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sentinelai/sentinel-core/internal/api/handlers"
	"github.com/sentinelai/sentinel-core/internal/api/middleware"
	"github.com/sentinelai/sentinel-core/internal/api/websocket"
	"github.com/sentinelai/sentinel-core/internal/config"
	"github.com/sentinelai/sentinel-core/internal/monitoring"
	"github.com/sentinelai/sentinel-core/internal/storage"
	"github.com/sentinelai/sentinel-core/pkg/cache"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

const Version = "1.0.0"

type Server struct {
	config     *config.Config
	logger     logger.Logger
	cache      cache.Cache
	stores     *storage.Stores
	hub        *websocket.Hub
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(
	cfg *config.Config,
	log logger.Logger,
	cacheClient cache.Cache,
	stores *storage.Stores,
	hub *websocket.Hub,
) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		config: cfg,
		logger: log,
		cache:  cacheClient,
		stores: stores,
		hub:    hub,
		router: gin.New(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	// CORS for the dashboard UI
	s.router.Use(middleware.CORSMiddleware(s.config.CORS))

	s.router.Use(middleware.RequestLogger(s.logger))

	// Prometheus request metrics
	s.router.Use(middleware.MetricsMiddleware())

	// Authentication (can be disabled via config.auth.enabled)
	if s.config.Auth.Enabled {
		s.router.Use(middleware.AuthMiddleware(s.config.Auth, s.cache))
	} else {
		s.router.Use(middleware.NoAuthMiddleware())
		s.logger.Warn("Authentication is DISABLED by configuration; requests will use anonymous/default context")
	}

	if s.config.Monitoring.Enabled {
		monitoring.SetupPrometheusMetrics(s.router)
	}
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler("sentinel-core", Version)
	s.router.GET("/", healthHandler.Root)
	s.router.GET("/health", healthHandler.Health)

	api := s.router.Group("/api")

	authHandler := handlers.NewAuthHandler(s.stores.Users, s.cache, s.config.Auth, s.logger)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/logout", authHandler.Logout)

	policyHandler := handlers.NewPolicyHandler(s.stores.Policies, s.stores.Templates, s.logger)
	api.GET("/policies", policyHandler.List)
	api.POST("/policies", policyHandler.Create)
	api.GET("/policies/templates", policyHandler.ListTemplates)
	api.GET("/policies/:id", policyHandler.Get)
	api.PUT("/policies/:id", policyHandler.Update)
	api.DELETE("/policies/:id", policyHandler.Delete)
	api.POST("/policies/:id/test", policyHandler.Test)

	eventHandler := handlers.NewEventHandler(s.stores.Events, s.stores.Violations, s.hub, s.logger)
	api.GET("/events", eventHandler.List)
	api.POST("/events", eventHandler.Create)
	api.GET("/events/stats/summary", eventHandler.Stats)
	api.GET("/events/:id", eventHandler.Get)
	api.PUT("/events/:id", eventHandler.Update)
	api.GET("/events/:id/violations", eventHandler.ListViolations)

	if s.config.WebSocket.Enabled {
		wsHandler := handlers.NewWebSocketHandler(s.hub, s.config.WebSocket, s.logger)
		api.GET("/events/ws", wsHandler.Serve)
	}

	violationHandler := handlers.NewViolationHandler(s.stores.Violations, s.logger)
	api.GET("/violations", violationHandler.List)
	api.GET("/violations/stats/summary", violationHandler.Stats)
	api.GET("/violations/:id", violationHandler.Get)
	api.PUT("/violations/:id", violationHandler.Update)

	dashboardHandler := handlers.NewDashboardHandler(s.stores.Stats, s.cache, s.logger)
	dashboard := api.Group("/dashboard")
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/events/timeline", dashboardHandler.EventsTimeline)
	dashboard.GET("/violations/by-category", dashboardHandler.ViolationsByCategory)
	dashboard.GET("/policies/by-status", dashboardHandler.PoliciesByStatus)
	dashboard.GET("/recent-activity", dashboardHandler.RecentActivity)
	dashboard.GET("/performance-metrics", dashboardHandler.PerformanceMetrics)
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("SentinelAI governance API starting", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler returns the underlying Gin engine so tests (or embedders) can mount it.
func (s *Server) Handler() http.Handler {
	return s.router
}
