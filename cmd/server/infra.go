package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"originate/internal/decision/ports"
	"originate/internal/decision/store"
	"originate/internal/platform/config"
	"originate/internal/platform/redis"
	"originate/pkg/platform/audit"
	"originate/pkg/platform/audit/kafka"
	"originate/pkg/platform/audit/publisher"
	"originate/pkg/platform/audit/store/memory"
)

const (
	auditBuffer       = 256
	topicPartitions   = 3
	topicReplication  = 1
	dependencyTimeout = 10 * time.Second
)

// infra owns the optional backing services. Each one degrades to an
// in-memory implementation when it is not configured.
type infra struct {
	store ports.DecisionStore
	audit ports.AuditPublisher

	archiveKind string
	auditKind   string

	redis     *redis.Client
	db        *sql.DB
	kafka     *kafka.Store
	publisher *publisher.Publisher
}

func newInfra(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	ctx, cancel := context.WithTimeout(ctx, dependencyTimeout)
	defer cancel()

	in := &infra{}
	if err := in.openArchive(ctx, cfg); err != nil {
		in.Close()
		return nil, err
	}
	if err := in.openAudit(ctx, cfg, log); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

func (in *infra) openArchive(ctx context.Context, cfg config.Server) error {
	var cache, durable store.Store

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rc != nil {
		in.redis = rc
		cache = store.NewRedisStore(rc.Client, cfg.Pipeline.DecisionTTL)
	}

	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		in.db = db
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		pg := store.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		durable = pg
	}

	switch {
	case cache != nil && durable != nil:
		in.store, in.archiveKind = store.NewTiered(cache, durable), "redis+postgres"
	case durable != nil:
		in.store, in.archiveKind = durable, "postgres"
	case cache != nil:
		in.store, in.archiveKind = cache, "redis"
	default:
		in.store, in.archiveKind = store.NewInMemoryStore(), "memory"
	}
	return nil
}

func (in *infra) openAudit(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	var sink audit.Store
	if len(cfg.Kafka.Brokers) > 0 {
		ks, err := kafka.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		in.kafka = ks
		if err := ks.EnsureTopic(ctx, topicPartitions, topicReplication); err != nil {
			return err
		}
		sink, in.auditKind = ks, "kafka"
	} else {
		sink, in.auditKind = memory.NewInMemoryStore(), "memory"
	}

	in.publisher = publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(auditBuffer),
		publisher.WithLogger(log),
	)
	in.audit = in.publisher
	return nil
}

// Health pings the configured network dependencies.
func (in *infra) Health(ctx context.Context) error {
	if in.redis != nil {
		if err := in.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	if in.db != nil {
		if err := in.db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	return nil
}

// Close drains the audit buffer before closing its sink.
func (in *infra) Close() {
	if in.publisher != nil {
		in.publisher.Close()
	}
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
}
