// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yourorg/stock-dashboard/internal/client"
	"github.com/yourorg/stock-dashboard/internal/config"
	"github.com/yourorg/stock-dashboard/internal/events"
	"github.com/yourorg/stock-dashboard/internal/handler"
	"github.com/yourorg/stock-dashboard/internal/middleware"
	"github.com/yourorg/stock-dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize the analytics service client
	analyticsClient := client.NewAnalyticsClient(cfg.Analytics.URL, cfg.Analytics.Timeout, logger)

	// Probe the analytics service; a slow start degrades to empty
	// dashboards rather than blocking the process.
	readyCtx, cancelReady := context.WithTimeout(context.Background(), 30*time.Second)
	if err := analyticsClient.WaitReady(readyCtx); err != nil {
		logger.Warn("Analytics service not ready, continuing anyway", zap.Error(err))
	}
	cancelReady()

	// Initialize the events producer
	var producer *events.Producer
	if cfg.Kafka.Enabled {
		producer = events.NewProducer(strings.Split(cfg.Kafka.Brokers, ","), cfg.Kafka.Topic, logger)
		defer producer.Close()
	}

	// Initialize services
	dashboardService := service.NewDashboardService(analyticsClient, producer, cfg.Dashboard, logger)

	// Initialize handlers
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	overviewHandler := handler.NewOverviewHandler(cfg.Overview)

	// Set up HTTP server with Gin
	router := setupRouter(dashboardHandler, overviewHandler, cfg, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(logCfg config.LoggingConfig) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch logCfg.Level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	encoding := "json"
	if logCfg.Format == "console" {
		encoding = "console"
	}

	// Create logger config
	loggerConfig := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return loggerConfig.Build()
}

func setupRouter(
	dashboardHandler *handler.DashboardHandler,
	overviewHandler *handler.OverviewHandler,
	cfg *config.Config,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/overview", overviewHandler.GetOverview)

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("", dashboardHandler.GetDashboard)

			mutations := dashboard.Group("")
			if cfg.Auth.Enabled {
				mutations.Use(middleware.AuthMiddleware(cfg.Auth.Secret, logger))
			}
			mutations.POST("/refresh", dashboardHandler.RefreshDashboard)
			mutations.POST("/decision", dashboardHandler.CalculateDecision)
			mutations.PUT("/thresholds", dashboardHandler.SetThreshold)
			mutations.POST("/thresholds/adjust", dashboardHandler.AdjustThreshold)
			mutations.PUT("/pages", dashboardHandler.SetPage)
		}
	}

	return router
}
