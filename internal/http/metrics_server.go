package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/passvault/internal/metrics"
)

const readinessTimeout = 2 * time.Second

// MetricsServer represents the HTTP server for Prometheus metrics and probes.
type MetricsServer struct {
	server *http.Server
	db     *sql.DB
	logger *slog.Logger
}

// NewMetricsServer creates a new MetricsServer. /metrics is only registered when
// metricsProvider is not nil.
func NewMetricsServer(
	host string,
	port int,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
	db *sql.DB,
) *MetricsServer {
	s := &MetricsServer{db: db, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)
	if metricsProvider != nil {
		router.GET("/metrics", gin.WrapH(metricsProvider.Handler()))
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the metrics HTTP server. It returns nil once Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics HTTP server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}

func (s *MetricsServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *MetricsServer) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	if database != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": database},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": database},
	})
}
