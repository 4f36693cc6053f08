package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"task-manager/configs"
	"task-manager/internal/api"
	"task-manager/internal/config"
	"task-manager/pkg/logger"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.InitLoggers(cfg.LogDir); err != nil {
		log.Fatalf("init loggers: %v", err)
	}
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application",
		zap.String("time", time.Now().Format(time.RFC3339)),
		zap.String("env", cfg.AppEnv),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := config.NewDependencies(ctx, cfg)
	if err != nil {
		logger.ErrorLogger.Error("Failed to initialise dependencies", zap.Error(err))
		return
	}
	defer deps.Close(context.Background())

	go deps.Hub.Run(ctx)

	app := api.NewApp(api.Services{
		Auth:   deps.Auth,
		Tasks:  deps.Tasks,
		Tokens: deps.Tokens,
		Hub:    deps.Hub,
	}, api.Options{
		Verbose:         cfg.Verbose(),
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
	})

	go func() {
		<-ctx.Done()
		logger.SystemLogger.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.ErrorLogger.Error("Error during shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
