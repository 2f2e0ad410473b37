package main

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/nab23-dev/prompt-sci/internal/config"
	"github.com/nab23-dev/prompt-sci/internal/events"
	"github.com/nab23-dev/prompt-sci/internal/rabbitmq"
	"github.com/nab23-dev/prompt-sci/internal/repository"
	"github.com/nab23-dev/prompt-sci/internal/repository/memory"
	"github.com/nab23-dev/prompt-sci/internal/repository/mongodb"
	"github.com/nab23-dev/prompt-sci/internal/repository/postgres"
	"github.com/nab23-dev/prompt-sci/internal/repository/redisrepo"
)

const connectTimeout = time.Minute

// connect retries fn with exponential backoff until it succeeds, ctx ends or
// connectTimeout passes.
func connect[T any](ctx context.Context, logger *zap.Logger, name string, fn func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = connectTimeout

	return backoff.RetryNotifyWithData[T](fn, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		logger.Sugar().Warnf("failed to connect to %s, retrying in %s: %s", name, next, err.Error())
	})
}

type backends struct {
	repo   *repository.Repository
	checks []func(ctx context.Context) error
}

// health pings every external backend.
func (b *backends) health(ctx context.Context) error {
	var errs []error
	for _, check := range b.checks {
		if err := check(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openBackends(ctx context.Context, logger *zap.Logger, cfg *config.Config) (*backends, error) {
	b := &backends{}

	switch cfg.Store.Type {
	case "memory":
		b.repo = memory.New(nil)
	case "postgres":
		pool, err := connect(ctx, logger, "postgres", func() (*pgxpool.Pool, error) {
			return postgres.Connect(ctx, cfg.Store.Postgres.DSN("postgres"), cfg.Store.Postgres.MaxConns)
		})
		if err != nil {
			return nil, err
		}

		pg := postgres.New(pool)
		b.repo = repository.New(pg.Users, pg.Posts, pg.Settings, nil)
		b.repo.OnClose(func(context.Context) error {
			pool.Close()
			return nil
		})
		b.checks = append(b.checks, pool.Ping)
	case "mongo":
		client, err := connect(ctx, logger, "mongo", func() (*mongo.Client, error) {
			return mongodb.Connect(ctx, cfg.Store.Mongo.URI)
		})
		if err != nil {
			return nil, err
		}

		db := client.Database(cfg.Store.Mongo.Database)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}

		mg := mongodb.New(db)
		b.repo = repository.New(mg.Users, mg.Posts, mg.Settings, nil)
		b.repo.OnClose(client.Disconnect)
		b.checks = append(b.checks, func(ctx context.Context) error { return client.Ping(ctx, nil) })
	}

	switch cfg.Cache.Type {
	case "memory":
		if b.repo.Redis == nil {
			b.repo.Redis = redisrepo.NewMemory()
		}
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if _, err := connect(ctx, logger, "redis", func() (string, error) {
			return rdb.Ping(ctx).Result()
		}); err != nil {
			_ = rdb.Close()
			_ = b.repo.Close(ctx)
			return nil, err
		}

		b.repo.Redis = redisrepo.New(rdb)
		b.repo.OnClose(func(context.Context) error { return rdb.Close() })
		b.checks = append(b.checks, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	return b, nil
}

// openPublisher returns the broker publisher, nil when events stay local.
func openPublisher(ctx context.Context, logger *zap.Logger, cfg *config.Config) (events.Publisher, func() error, error) {
	if cfg.Events.Type != "rabbitmq" {
		return nil, func() error { return nil }, nil
	}

	conn, err := connect(ctx, logger, "rabbitmq", func() (*rabbitmq.MQConn, error) {
		return rabbitmq.Dial(cfg.Events.RabbitMQ.URL)
	})
	if err != nil {
		return nil, nil, err
	}

	return events.NewMQPublisher(conn), conn.Close, nil
}
