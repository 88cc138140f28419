//go:build integration

// Package containers starts shared testcontainers for integration suites.
// Each container type is started at most once per test binary; Ryuk
// terminates them when the process exits.
package containers

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

var (
	redisOnce sync.Once
	redisC    *RedisContainer
	redisErr  error

	postgresOnce sync.Once
	postgresC    *PostgresContainer
	postgresErr  error

	redpandaOnce sync.Once
	redpandaC    *RedpandaContainer
	redpandaErr  error
)

// RedisContainer wraps a testcontainers Redis instance. Addr is a redis:// URL.
type RedisContainer struct {
	Container testcontainers.Container
	Addr      string
	Client    *redis.Client
}

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// RedpandaContainer wraps a Kafka-compatible Redpanda broker.
type RedpandaContainer struct {
	Container testcontainers.Container
	Broker    string
}

// Redis returns the shared Redis container, starting it on first use.
func Redis(t *testing.T) *RedisContainer {
	t.Helper()
	redisOnce.Do(func() {
		ctx := context.Background()
		container, err := tcredis.Run(ctx, "redis:7-alpine")
		if err != nil {
			redisErr = err
			return
		}
		addr, err := container.ConnectionString(ctx)
		if err != nil {
			redisErr = err
			return
		}
		opts, err := redis.ParseURL(addr)
		if err != nil {
			redisErr = err
			return
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			redisErr = err
			return
		}
		redisC = &RedisContainer{Container: container, Addr: addr, Client: client}
	})
	if redisErr != nil {
		t.Fatalf("failed to start redis container: %v", redisErr)
	}
	return redisC
}

// FlushAll removes all keys. Use between tests for isolation.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}

// Postgres returns the shared Postgres container, starting it on first use.
func Postgres(t *testing.T) *PostgresContainer {
	t.Helper()
	postgresOnce.Do(func() {
		ctx := context.Background()
		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("originate"),
			tcpostgres.WithUsername("originate"),
			tcpostgres.WithPassword("originate"),
			tcpostgres.BasicWaitStrategies(),
		)
		if err != nil {
			postgresErr = err
			return
		}
		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			postgresErr = err
			return
		}
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			postgresErr = err
			return
		}
		if err := db.PingContext(ctx); err != nil {
			postgresErr = err
			return
		}
		postgresC = &PostgresContainer{Container: container, DSN: dsn, DB: db}
	})
	if postgresErr != nil {
		t.Fatalf("failed to start postgres container: %v", postgresErr)
	}
	return postgresC
}

// Truncate empties the given tables.
func (p *PostgresContainer) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return err
		}
	}
	return nil
}

// Redpanda returns the shared broker, starting it on first use.
func Redpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	redpandaOnce.Do(func() {
		ctx := context.Background()
		container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.4",
			redpanda.WithAutoCreateTopics(),
		)
		if err != nil {
			redpandaErr = err
			return
		}
		broker, err := container.KafkaSeedBroker(ctx)
		if err != nil {
			redpandaErr = err
			return
		}
		redpandaC = &RedpandaContainer{Container: container, Broker: broker}
	})
	if redpandaErr != nil {
		t.Fatalf("failed to start redpanda container: %v", redpandaErr)
	}
	return redpandaC
}
