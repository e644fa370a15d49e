package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/congregateapp/congregate/internal/config"
	httpmiddleware "github.com/congregateapp/congregate/internal/delivery/http/middleware"
	middleware "github.com/congregateapp/congregate/internal/exception"
	tracelog "github.com/congregateapp/congregate/internal/middleware"
	"github.com/congregateapp/congregate/internal/observability"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2/middleware/compress"
	zapLog "go.uber.org/zap"
)

func main() {
	time.Local = time.UTC

	fiber := config.NewFiber()
	zap := config.NewZap()
	koanf := config.NewKoanf(zap)
	rds := config.NewRedisClient(koanf, zap)
	postgresql := config.NewPostgresqlPool(koanf, zap)
	minio := config.NewMinIO(koanf, zap)

	// Custom recovery middleware to handle panics with JSON response
	fiber.Use(middleware.Recovery(zap))

	fiber.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	fiber.Use(httpmiddleware.SetupCORS())
	fiber.Use(httpmiddleware.SetupRateLimiter(zap))

	// Tracing is opt-in, deployments without a collector run without it
	var shutdownTracing func(context.Context) error
	if koanf.String("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		observabilityConfig := config.LoadObservabilityConfig(koanf, zap)

		var err error
		shutdownTracing, err = observability.Init(context.Background(), observabilityConfig, zap)
		if err != nil {
			zap.Fatal("failed to initialize tracing", zapLog.Error(err))
		}

		fiber.Use(otelfiber.Middleware())
		fiber.Use(tracelog.TraceLoggerMiddleware(zap))
	}

	scheduler := config.Server(&config.ServerConfig{
		Router:  fiber,
		DB:      postgresql,
		DBCache: rds,
		Log:     zap,
		Config:  koanf,
		MinIO:   minio,
	})

	err := scheduler.Start()
	if err != nil {
		zap.Fatal("error starting scheduler", zapLog.Error(err))
	}

	GO_SERVER_PORT := koanf.String("GO_SERVER")

	zap.Info("Server is running on: " + GO_SERVER_PORT)

	go func() {
		err := fiber.Listen(GO_SERVER_PORT)
		if err != nil {
			zap.Fatal("error starting server", zapLog.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	zap.Info("got one of stop signals")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop()

	if shutdownTracing != nil {
		if err := shutdownTracing(ctx); err != nil {
			zap.Warn("failed to shut down tracing", zapLog.Error(err))
		}
	}

	err = fiber.ShutdownWithContext(ctx)
	if err != nil {
		zap.Warn("timeout, forced kill!", zapLog.Error(err))
		_ = zap.Sync()
		os.Exit(1)
	}

	zap.Info("server has shut down gracefully")
	_ = zap.Sync()
}
