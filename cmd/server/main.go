package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"privlens/internal/config"
	"privlens/internal/extractor"
	"privlens/internal/handler"
	"privlens/internal/llm"
	"privlens/internal/llm/claude"
	"privlens/internal/llm/gemini"
	"privlens/internal/llm/openai"
	"privlens/internal/logging"
	"privlens/internal/pipeline"
	"privlens/internal/port"
	"privlens/internal/repository/memory"
	"privlens/internal/repository/postgres"
	"privlens/internal/router"
	"privlens/internal/service"
	"privlens/internal/storage/noop"
	s3storage "privlens/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reasoning providers
	llm.RegisterProvider("openai", openai.Factory)
	llm.RegisterProvider("claude", claude.Factory)
	llm.RegisterProvider("gemini", gemini.Factory)

	provider, err := llm.NewProviderChain(&cfg.Reasoning, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize reasoning provider: %w", err)
	}
	gate := llm.NewGate(llm.GateConfig{
		MaxConcurrency:    cfg.Reasoning.MaxConcurrency,
		RequestsPerMinute: cfg.Reasoning.RequestsPerMinute,
		TokensPerMinute:   cfg.Reasoning.TokensPerMinute,
	}, logger)
	reasoner := llm.NewClient(provider, gate, llm.ClientConfigFromConfig(&cfg.Reasoning), logger)

	// Persistence
	var repo port.AnalysisRepository
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repo = postgres.NewAnalysisRepo(db)
	} else {
		logger.Info("database disabled, keeping analyses in memory")
		repo = memory.NewAnalysisRepo()
	}

	var storage port.ObjectStorage
	if cfg.S3.Enabled {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		storage = noop.NewStorage()
	}

	// Services and handlers
	maxUpload := cfg.Pipeline.MaxUploadSizeMB << 20
	presign := int64(0)
	if cfg.S3.Enabled {
		presign = cfg.S3.PresignExpiry
	}
	analysisSvc := service.NewAnalysisService(
		pipeline.New(cfg.Pipeline, reasoner, logger),
		extractor.New(),
		repo,
		storage,
		service.Options{
			MaxUploadBytes: maxUpload,
			PresignExpiry:  presign,
			Models:         service.NewModelInfo(&cfg.Reasoning, &cfg.Pipeline),
		},
		logger,
	)

	policyH := handler.NewPolicyHandler(analysisSvc, maxUpload)
	healthH := handler.NewHealthHandler(repo, reasoner)
	r := router.Setup(policyH, healthH, cfg.CORS.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("provider", provider.Name()),
			zap.Bool("db", cfg.DB.Enabled),
			zap.Bool("s3", cfg.S3.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
