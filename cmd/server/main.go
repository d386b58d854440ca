package main

import (
	"IonAuth/internal/config"
	"IonAuth/internal/middleware"
	"IonAuth/internal/server"
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sugar.Infow("Config",
		"Port", cfg.Port,
		"Host", cfg.Host,
		"StaticRoot", cfg.StaticRoot,
		"DatabaseConfigured", cfg.DatabaseDSN != "",
	)

	srv := server.NewServer(cfg, sugar)
	if err := srv.Bootstrap(ctx); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
