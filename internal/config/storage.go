package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kmdsweets/storefront/internal/storage"
)

// OpenStorage builds the key-value backend chosen by STORAGE_DRIVER. The returned
// close func releases the underlying connection.
func OpenStorage(ctx context.Context, cfg Config) (storage.KV, func() error, error) {
	switch cfg.StorageDriver {
	case StorageMemory, "":
		return storage.NewMemoryKV(), func() error { return nil }, nil

	case StorageRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return &storage.RedisKV{Client: client, TTL: cfg.RedisTTL}, client.Close, nil

	case StorageGorm:
		db, err := OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return &storage.GormKV{DB: db}, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
