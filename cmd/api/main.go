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

	"github.com/joho/godotenv"
	"github.com/shinyyama/cafe-menu/internal/app"
	"github.com/shinyyama/cafe-menu/internal/config"
	"github.com/shinyyama/cafe-menu/internal/logger"
	"github.com/shinyyama/cafe-menu/internal/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := app.Open(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			zl.Warnw("close resources", "error", err)
		}
	}()

	srv := server.New(server.Deps{
		Items:             res.Items,
		Images:            res.Images,
		Verifier:          res.Verifier,
		Log:               zl,
		UploadMaxBytes:    cfg.UploadMaxBytes,
		CORSAllowedSuffix: cfg.CORSAllowedSuffix,
		GitSHA:            cfg.GitSHA,
		BuildTime:         cfg.BuildTime,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	zl.Infow("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
