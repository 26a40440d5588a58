package main

import (
	"context"

	"TradeView/internal/collector"
	"TradeView/internal/config"
	"TradeView/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.DataSource.File != "" {
		return collector.NewFileFetcher(cfg.DataSource.File)
	}
	return collector.NewHTTPFetcher(cfg.DataSource.URL, cfg.DataSource.Proxy, cfg.DataSource.Timeout())
}

// newRedis connects when an address is configured. A failed ping is logged
// and treated as no redis at all.
func newRedis(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) *redis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("redis unavailable, continuing without it")
		client.Close()
		return nil
	}
	return client
}

// openStore picks the settings backend. Any failure falls back to memory so
// the service still starts.
func openStore(cfg *config.Config, rdb *redis.Client, log logrus.FieldLogger) store.KV {
	switch cfg.Storage.Driver {
	case "sqlite":
		kv, err := store.NewSQLiteKV(cfg.Storage.SQLitePath, log)
		if err == nil {
			return kv
		}
		log.WithError(err).Warn("init sqlite settings store failed, using memory")
	case "file":
		kv, err := store.NewFileKV(cfg.Storage.FilePath)
		if err == nil {
			return kv
		}
		log.WithError(err).Warn("init file settings store failed, using memory")
	case "redis":
		if rdb != nil {
			return store.NewRedisKV(rdb, cfg.Redis.Prefix)
		}
		log.Warn("redis settings store unavailable, using memory")
	}
	return store.NewMemoryKV()
}
