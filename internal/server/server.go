package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"meetings-api/config"
	"meetings-api/internal/handler"
	"meetings-api/internal/middleware"
	"meetings-api/internal/repository"
	"meetings-api/internal/services"
	"meetings-api/internal/transport/httpdto"
	"meetings-api/pkg/database"
	"meetings-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Meetings *handler.MeetingHandler
	Users    *handler.UserHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	switch cfg.AppMode {
	case ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware(l))

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// SetupRoutes wires repositories, services and handlers onto db and
// registers every route. A nil limiter disables auth rate limiting.
func (s *Server) SetupRoutes(db *database.DB, limiter middleware.AuthLimiter) {
	userRepo := repository.NewUserRepository(db.DB, db.Dialect)
	meetingRepo := repository.NewMeetingRepository(db.DB, db.Dialect)

	authService := services.NewAuthService(userRepo, s.config)
	meetingService := services.NewMeetingService(meetingRepo, s.logger, s.config.EnforceMeetingOwnership)

	handlers := &Handlers{
		Auth:     handler.NewAuthHandler(authService, s.logger),
		Meetings: handler.NewMeetingHandler(meetingService),
		Users:    handler.NewUserHandler(),
	}

	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(s.config.AllowedOrigins())))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.MessageResponse{Message: "pong"})
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("database unavailable", "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.MessageResponse{Status: "healthy"})
	})

	auth := s.engine.Group("/auth")
	if limiter != nil {
		auth.Use(middleware.AuthRateLimitMiddleware(limiter, s.logger))
	}
	{
		auth.POST("/register/", handlers.Auth.Register)
		auth.POST("/login/", handlers.Auth.Login)
		auth.POST("/refresh/", handlers.Auth.Refresh)
	}

	requireAuth := middleware.AuthMiddleware(authService, s.logger)

	meetings := s.engine.Group("/meetings", requireAuth)
	{
		meetings.GET("/", handlers.Meetings.List)
		meetings.POST("/", handlers.Meetings.Create)
		meetings.GET("/:id/", handlers.Meetings.Get)
		meetings.PUT("/:id/", handlers.Meetings.Update)
		meetings.PATCH("/:id/", handlers.Meetings.Update)
		meetings.DELETE("/:id/", handlers.Meetings.Delete)
	}

	s.engine.GET("/api/users/me/", requireAuth, handlers.Users.Me)
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled and drains in-flight requests for up to
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if s.logger != nil {
		s.logger.Infof("Shutdown signal received, draining for up to %s", s.config.ShutdownTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		if s.logger != nil {
			s.logger.Errorf("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}
	return nil
}
