package main

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/anthony-okoye/vestro/store"
	"github.com/anthony-okoye/vestro/store/memory"
	mongostore "github.com/anthony-okoye/vestro/store/mongo"
	"github.com/anthony-okoye/vestro/store/postgres"
	redisstore "github.com/anthony-okoye/vestro/store/redis"
)

// buildStore constructs the aggregate store for the configured driver.
// The returned cleanup releases whatever client the driver owns.
func buildStore(ctx context.Context, cfg *Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		return memory.New(), func() {}, nil

	case "postgres":
		pg, err := postgres.New(ctx, cfg.Store.Postgres.URL, postgres.WithLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return pg, func() { _ = pg.Close() }, nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		rs := redisstore.New(client, redisstore.WithLogger(logger))
		return rs, func() { _ = client.Close() }, nil

	case "mongo":
		client, err := mongod.Connect(options.Client().ApplyURI(cfg.Store.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		ms := mongostore.New(client.Database(cfg.Store.Mongo.Database), mongostore.WithLogger(logger))
		return ms, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q (want memory, postgres, redis or mongo)", cfg.Store.Driver)
	}
}
