package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"TradeView/internal/collector"
	"TradeView/internal/dataset"
	"TradeView/internal/scheduler"
	"TradeView/internal/server"
	"TradeView/internal/settings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func serveAction(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("TradeView starting")

	fetcher := newFetcher(cfg)
	logger.WithField("source", fetcher.Name()).Info("data source configured")

	data := dataset.NewStore()
	loader := dataset.NewLoader(collector.NewCollector(fetcher, logger), data, logger)

	// redis is shared by the settings store and the response cache and closed last
	rdb := newRedis(ctx, cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	kv := openStore(cfg, rdb, logger)
	if cfg.Storage.Driver != "redis" {
		defer kv.Close()
	}
	sm := settings.NewManager(ctx, kv, logger)

	sched := scheduler.NewScheduler(ctx, loader, logger)
	if err := sched.Register(cfg.Schedule.ReloadCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// the first load runs in the background; pages show the placeholder meanwhile
	sched.Trigger()

	opts := server.Options{
		ChartWidth:  cfg.Chart.Width,
		ChartHeight: cfg.Chart.Height,
		CacheTTL:    cfg.Cache.TTL(),
	}
	if rdb != nil && cfg.Cache.TTL() > 0 {
		opts.Cache = server.RedisCache{Client: rdb}
	}
	handler := server.NewHandler(data, sm, sched, opts, logger)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: handler,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown error")
	}
	logger.Info("server stopped")
	return nil
}
