package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/ports"
)

// OpenStore builds the program library selected by cfg.Store.
// The returned close function releases backend connections.
func OpenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (ports.ProgramStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreMemory:
		logger.Debug("Using memory program library")
		return memory.NewStore(), noop, nil
	case config.StoreFile, "":
		logger.Debug("Using file program library", "path", cfg.Library)
		return file.New(cfg.Library), noop, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis program library unavailable at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("Using redis program library", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
