package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"gravity/internal/api"
	"gravity/internal/config"
	"gravity/internal/logger"
	"gravity/internal/observability"
	"gravity/internal/relay"
	"gravity/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gravity server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, *cfg, nil, log)
	if err != nil {
		log.WithError(err).Warn("tracing disabled", nil)
	}

	// 初始化数据库
	db, err := store.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	repo := store.NewOfferRepository(db, log.WithFields(map[string]interface{}{"component": "store"}))
	gen := relay.New(cfg.LLM, log.WithFields(map[string]interface{}{"component": "relay"}))

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(repo, gen, log.WithFields(map[string]interface{}{"component": "api"}))
	router := api.NewRouter(handler, log, api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		Tracing:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
	})

	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", map[string]interface{}{
			"addr":     srv.Addr,
			"database": cfg.Database.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeoutMs))
		defer cancel()
		log.Info("server shutting down", nil)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return shutdownTracing(shutdownCtx)
	})
	return g.Wait()
}
