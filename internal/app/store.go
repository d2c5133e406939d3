package app

import (
	"context"
	"fmt"
	"io"

	"github.com/MrSnakeDoc/netcompare/internal/config"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/redis"
	"github.com/MrSnakeDoc/netcompare/internal/store"
	"github.com/MrSnakeDoc/netcompare/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/netcompare/internal/store/redis"
	"github.com/MrSnakeDoc/netcompare/internal/store/sqlite"
	"github.com/MrSnakeDoc/netcompare/internal/utils"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Backend is an opened snapshot store.
type Backend struct {
	Name    string
	KV      store.KV
	Sweeper store.Sweeper // nil when the backend expires keys itself
	Pinger  pinger        // nil when there is nothing to probe
	closer  io.Closer
	logger  logger.Logger
}

// Close releases the backend's connection or file.
func (b *Backend) Close() {
	utils.CloseLogged(b.closer, b.Name, b.logger)
}

// OpenStore opens the backend selected by cfg.StoreBackend.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		log.Info("connecting to redis", logger.String("addr", cfg.RedisAddr))
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		s := redisstore.NewStore(client, cfg.SessionTTL)
		return &Backend{Name: cfg.StoreBackend, KV: s, Pinger: s, closer: client, logger: log}, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Debug("sqlite store opened", logger.String("path", cfg.SQLitePath))
		return &Backend{Name: cfg.StoreBackend, KV: s, Sweeper: s, Pinger: s, closer: s, logger: log}, nil

	case config.BackendMemory:
		s := memory.New()
		return &Backend{Name: cfg.StoreBackend, KV: s, Sweeper: s, logger: log}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
