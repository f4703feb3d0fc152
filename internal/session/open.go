package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/JonMunkholm/csv2sendy/internal/config"
)

// Connect retry policy for startup.
const (
	retryInitialInterval = 500 * time.Millisecond
	retryMultiplier      = 2.0
	retryMaxInterval     = 5 * time.Second
	retryRandomization   = 0.5
	retryMaxElapsed      = 20 * time.Second
)

// Open builds the store selected by cfg.Session.Backend. Network backends
// are retried with exponential backoff while the server is starting.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	ttl := cfg.Session.TTL

	switch strings.ToLower(cfg.Session.Backend) {
	case config.BackendMemory, "":
		return NewMemoryStore(ttl), nil

	case config.BackendRedis:
		var store *RedisStore
		err := retryConnect(ctx, retryMaxElapsed, func() error {
			client, err := ConnectRedis(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			store = NewRedisStore(client, ttl)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("open redis session store: %w", err)
		}
		slog.Info("session store connected", "backend", config.BackendRedis, "addr", cfg.Redis.Addr)
		return store, nil

	case config.BackendPostgres:
		var store *PostgresStore
		err := retryConnect(ctx, retryMaxElapsed, func() error {
			pool, err := ConnectPostgres(ctx, cfg.Database)
			if err != nil {
				return err
			}
			store = NewPostgresStore(pool, ttl)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres session store: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, err
		}
		slog.Info("session store connected", "backend", config.BackendPostgres)
		return store, nil
	}

	return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
}

// retryPermanent marks an error that retrying cannot fix.
func retryPermanent(err error) error {
	return backoff.Permanent(err)
}

// retryConnect retries fn with exponential backoff until it succeeds, returns
// a permanent error, ctx ends, or maxElapsed passes.
func retryConnect(ctx context.Context, maxElapsed time.Duration, fn func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = retryInitialInterval
	exp.Multiplier = retryMultiplier
	exp.MaxInterval = retryMaxInterval
	exp.RandomizationFactor = retryRandomization
	exp.Reset()

	attempt := 0
	op := func() (struct{}, error) {
		if err := ctx.Err(); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		attempt++
		err := fn()
		if err != nil {
			var perm *backoff.PermanentError
			if !errors.As(err, &perm) {
				slog.Warn("session store not ready, retrying", "attempt", attempt, "error", err)
			}
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(maxElapsed),
	)
	return err
}
