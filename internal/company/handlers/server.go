package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// ServerConfig carries the HTTP serving options.
type ServerConfig struct {
	Port        int
	AllowOrigin string
	// Environment toggles error detail in 500 responses; anything but
	// "production" is treated as a development deployment.
	Environment string
}

// Server wraps the echo instance with the middleware stack and route
// table of the directory API.
type Server struct {
	echo     *echo.Echo
	logger   *zap.Logger
	endpoint string
}

// NewServer builds the echo server: recovery, CORS, rate limiting,
// request logging, and the envelope-preserving error handler.
func NewServer(cfg ServerConfig, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	allowOrigins := []string{"http://localhost:3000"}
	if cfg.AllowOrigin != "" {
		allowOrigins = []string{cfg.AllowOrigin}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     middleware.DefaultCORSConfig.AllowHeaders,
		AllowMethods:     middleware.DefaultCORSConfig.AllowMethods,
		AllowCredentials: true,
	}))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	e.Use(requestLogger(logger))

	exposeErrors := cfg.Environment != "production"
	e.HTTPErrorHandler = errorHandler(logger, exposeErrors)

	return &Server{
		echo:     e,
		logger:   logger,
		endpoint: fmt.Sprintf(":%d", cfg.Port),
	}
}

// RegisterRoutes wires the company handler into the route table.
func (s *Server) RegisterRoutes(h *CompanyHandler) {
	s.echo.GET("/", h.Root)

	api := s.echo.Group("/api")
	api.GET("/health", h.Health)

	companies := api.Group("/companies")
	companies.GET("", h.List)
	companies.GET("/stats", h.Stats)
	companies.POST("", h.Create)
	companies.POST("/bulk", h.BulkCreate)
	companies.GET("/:id", h.Get)
	companies.PUT("/:id", h.Update)
	companies.DELETE("/:id", h.Delete)
}

// Handler exposes the underlying http.Handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("endpoint", s.endpoint))
	if err := s.echo.Start(s.endpoint); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	s.logger.Info("Server stopped")
}

// requestLogger logs one line per request with method, path, status and
// latency.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	log := logger.Named("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.Info("request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return nil
		}
	}
}

// errorHandler keeps the response envelope for errors the handlers did
// not map themselves: unmatched routes and panics/unexpected failures.
func errorHandler(logger *zap.Logger, exposeErrors bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
				_ = c.JSON(http.StatusNotFound, response{Success: false, Message: "Route not found"})
				return
			}
			_ = c.JSON(he.Code, response{Success: false, Message: fmt.Sprintf("%v", he.Message)})
			return
		}

		logger.Error("unhandled error", zap.Error(err))
		resp := response{Success: false, Message: "Something went wrong!"}
		if exposeErrors {
			resp.Error = err.Error()
		}
		_ = c.JSON(http.StatusInternalServerError, resp)
	}
}
