package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/koreroai/server/adapters/grading"
	"github.com/koreroai/server/adapters/postgres"
	"github.com/koreroai/server/adapters/storage"
	"github.com/koreroai/server/assessments"
	"github.com/koreroai/server/domain/repositories"
	"github.com/koreroai/server/internal/api"
	"github.com/koreroai/server/internal/auth"
	"github.com/koreroai/server/internal/config"
	"github.com/koreroai/server/internal/relay"
	"github.com/koreroai/server/internal/upstream"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	catalogue := assessments.NewCatalogue()

	// Persistence collaborators are optional: without a database the
	// relay still runs sessions, it just cannot save anything.
	var transcripts repositories.TranscriptRepository
	var materials repositories.MaterialRepository
	var results repositories.AssessmentRepository
	if cfg.DatabaseDSN != "" {
		db, err := postgres.NewClient(cfg.DatabaseDSN, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		transcripts = postgres.NewTranscriptRepository(db)
		materials = postgres.NewMaterialRepository(db)
		results = postgres.NewAssessmentRepository(db)
	} else {
		logger.Warn("No database configured, transcripts and assessments will not be saved")
	}

	var grader repositories.Grader
	if cfg.GeminiKey != "" {
		g, err := grading.NewGemini(context.Background(), cfg.GeminiKey, catalogue, materials, results, logger)
		if err != nil {
			logger.Fatal("Failed to create grader", zap.Error(err))
		}
		grader = g
	} else {
		logger.Warn("No Gemini key configured, assessments will not be graded")
	}

	var mirror repositories.ObjectStore
	if cfg.S3.Bucket != "" {
		mirror, err = storage.NewS3Store(context.Background(), storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			logger.Fatal("Failed to create object store", zap.Error(err))
		}
	}
	audioStore := storage.NewAudioStore(cfg.AudioDir, mirror, logger)

	r := relay.New(catalogue, relay.Dependencies{
		Upstream: upstream.Config{
			URL:        cfg.Upstream.URL,
			APIKey:     cfg.Upstream.APIKey,
			Model:      cfg.Upstream.Model,
			LogTraffic: cfg.TrafficLog,
		},
		MetadataWait: cfg.MetadataWait,
		SaveAudio:    cfg.SaveAudio,
		Transcripts:  transcripts,
		Grader:       grader,
		Audio:        audioStore,
	}, logger)

	var issuer *auth.Issuer
	if cfg.JWTSecret != "" {
		issuer = auth.NewIssuer(cfg.JWTSecret)
	} else {
		logger.Warn("No JWT secret configured, websocket endpoint is open")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitRoutes(e, r, catalogue, issuer, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Relay started",
		zap.String("port", cfg.Port),
		zap.Strings("kinds", catalogue.Kinds()))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
