package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TomasB/geotariff/internal/config"
	"github.com/TomasB/geotariff/internal/data"
	"github.com/TomasB/geotariff/internal/handler/check"
	"github.com/TomasB/geotariff/internal/handler/health"
	"github.com/TomasB/geotariff/internal/tariff"
	"github.com/TomasB/geotariff/internal/watch"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// Initialize structured logging
	logLevel := getLogLevel(os.Getenv("LOG_LEVEL"))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("service starting", "log_level", logLevel.String())

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Set Gin mode based on log level
	if logLevel == slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load MaxMind MMDB
	reader, err := data.NewMmdbReader(cfg.MMDBPath)
	if err != nil {
		slog.Error("failed to open MMDB", "path", cfg.MMDBPath, "error", err)
		os.Exit(1)
	}
	defer reader.Close()

	slog.Info("MMDB loaded", "path", cfg.MMDBPath, "type", reader.DatabaseType())

	watcher, err := watch.NewFileWatcher(cfg.MMDBPath)
	if err != nil {
		slog.Error("failed to watch MMDB", "path", cfg.MMDBPath, "error", err)
		os.Exit(1)
	}
	defer watcher.Close()

	tariffs := tariff.NewConfig(reader)
	for _, t := range cfg.Tariffs {
		tariffs.With(t.Country, t.Delay)
	}
	layer := tariffs.IntoLayer()

	slog.Info("tariffs configured", "countries", layer.Policy().Table().Countries())

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(ginLogger(logger))
	router.Use(gin.Recovery())

	// Register health endpoints
	healthHandler := health.NewHandler(watcher.Ready)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Register API endpoints behind the tariff
	checkHandler := check.NewHandler(layer.Policy())
	api := router.Group("/api/v1", layer.Gin())
	{
		api.POST("/check", checkHandler.Check)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("service started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		grpcSrv = newGRPCServer(layer)
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			slog.Error("failed to listen for gRPC", "port", cfg.GRPCPort, "error", err)
			os.Exit(1)
		}
		go func() {
			slog.Info("gRPC service started", "port", cfg.GRPCPort)
			if err := grpcSrv.Serve(lis); err != nil {
				slog.Error("gRPC server failed", "error", err)
				os.Exit(1)
			}
		}()
	}

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("service shutting down")

	// Graceful shutdown with 30s timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("service stopped")
}

// newGRPCServer returns a gRPC server exposing the standard health service
// behind the tariff interceptors.
func newGRPCServer(layer *tariff.Layer) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(layer.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(layer.StreamServerInterceptor()),
	)
	healthpb.RegisterHealthServer(s, grpchealth.NewServer())
	return s
}

// getLogLevel converts string log level to slog.Level
func getLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ginLogger creates a Gin middleware that logs using slog
func ginLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		// Log request
		duration := time.Since(start)
		statusCode := c.Writer.Status()

		attrs := []any{
			"method", method,
			"path", path,
			"remote_ip", c.RemoteIP(),
			"status", statusCode,
			"duration_ms", duration.Milliseconds(),
		}

		if c.IsAborted() && !c.Writer.Written() {
			logger.Info("request abandoned", attrs...)
		} else if len(c.Errors) > 0 {
			logger.Error("request completed with errors", append(attrs, "errors", c.Errors.String())...)
		} else if statusCode >= 500 {
			logger.Error("request completed", attrs...)
		} else if statusCode >= 400 {
			logger.Warn("request completed", attrs...)
		} else {
			logger.Info("request completed", attrs...)
		}
	}
}
