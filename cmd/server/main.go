package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ashenafi-pixel/gamba-blinks/config"
	"github.com/Ashenafi-pixel/gamba-blinks/server"
)

func main() {
	// Load .env so DATABASE_URL and the RPC endpoint are set: cwd .env or project root .env/.env.local
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../.env.local")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := newLogger(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("server setup failed", zap.Error(err))
	}
	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return log
}
