package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygo "github.com/getsentry/sentry-go"

	"github.com/Brownie44l1/plant-api/internal/config"
	"github.com/Brownie44l1/plant-api/internal/handlers"
	"github.com/Brownie44l1/plant-api/internal/imaging"
	"github.com/Brownie44l1/plant-api/internal/logger"
	"github.com/Brownie44l1/plant-api/internal/metrics"
	"github.com/Brownie44l1/plant-api/internal/model"
)

const sentryFlushTime = 2 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v\n", err)
	}

	applog, err := logger.NewAppLogger(logger.Options{
		Debug:     cfg.Debug,
		ErrorFile: cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("cannot init logger: %v\n", err)
	}
	defer logger.Sync(applog)

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		applog.Fatalf("cannot init sentry: %v", err)
	}
	defer sentrygo.Flush(sentryFlushTime)

	applog.Infow("Loading model", "model", cfg.Model.Path, "metadata", cfg.Model.MetadataPath)

	modelServer, err := model.NewServer(model.ServerOptions{
		ModelPath:      cfg.Model.Path,
		MetadataPath:   cfg.Model.MetadataPath,
		RuntimeLibrary: cfg.Model.RuntimeLibrary,
	})
	if err != nil {
		applog.Fatalf("Failed to initialize model server: %v", err)
	}
	defer modelServer.Close()

	applog.Infow("Model loaded",
		"classes", len(modelServer.Metadata.Classes),
		"image_size", modelServer.Metadata.ImageSize,
	)

	handler := handlers.NewHandler(modelServer, applog,
		handlers.WithDecoder(imaging.NewDecoder(imaging.Options{MaxPixels: cfg.Model.MaxImagePixels})),
		handlers.WithMetrics(metrics.New()),
	)

	router := handlers.NewRouter(handler, handlers.RouterOptions{
		AllowOrigins: cfg.AllowOrigins,
		BodyLimit:    cfg.MaxUploadSize,
	})

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		applog.Infow("Server starting", "address", srv.Addr, "env", cfg.AppEnv)
		applog.Info("Endpoints: GET / | GET /health | GET /metrics | POST /predict (multipart field 'file')")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Errorf("Server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	applog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.Errorf("Server forced to shutdown: %v", err)
	}

	applog.Info("Server exited")
}
