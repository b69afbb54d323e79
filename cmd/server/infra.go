package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	credentialstore "github.com/admin-bn/company-controller/internal/credential/store"
	employeeservice "github.com/admin-bn/company-controller/internal/employee/service"
	employeestore "github.com/admin-bn/company-controller/internal/employee/store"
	"github.com/admin-bn/company-controller/internal/issuance/events"
	issuanceservice "github.com/admin-bn/company-controller/internal/issuance/service"
	"github.com/admin-bn/company-controller/internal/platform/config"
	"github.com/admin-bn/company-controller/internal/platform/database"
	"github.com/admin-bn/company-controller/internal/platform/health"
	"github.com/admin-bn/company-controller/internal/platform/kafka/producer"
	"github.com/admin-bn/company-controller/internal/platform/lock"
	"github.com/admin-bn/company-controller/internal/platform/redis"
)

const poolStatsInterval = 15 * time.Second

// infra holds the storage and coordination backends chosen from config.
// Each optional backend falls back to an in-process implementation.
type infra struct {
	employees   employeeservice.Store
	credentials issuanceservice.CredentialStore
	locker      lock.Locker
	publisher   issuanceservice.EventPublisher

	closers []func() error
}

func buildInfra(ctx context.Context, cfg config.Server, reg prometheus.Registerer, log *slog.Logger, h *health.Handler) (*infra, error) {
	in := &infra{}

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.Database.URL
	pool, err := database.New(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	if pool != nil {
		if err := pool.Migrate(ctx); err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		in.employees = employeestore.NewPostgres(pool.DB())
		in.credentials = credentialstore.NewPostgres(pool.DB())
		in.closers = append(in.closers, pool.Close)
		h.RegisterCheck("database", pool.Health)
		log.Info("using postgres stores")
	} else {
		in.employees = employeestore.NewInMemory()
		in.credentials = credentialstore.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rc, err := redis.New(ctx, cfg.Redis, reg)
	if err != nil {
		in.Close(log)
		return nil, err
	}
	if rc != nil {
		in.locker = lock.NewRedis(rc.Client, cfg.Redis.LockTTL)
		in.closers = append(in.closers, rc.Close)
		h.RegisterCheck("redis", rc.Health)
		go rc.RunPoolStats(ctx, poolStatsInterval)
		log.Info("using redis employee locks")
	} else {
		in.locker = lock.NewLocal()
	}

	if cfg.Kafka.Brokers != "" {
		p, err := producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			in.Close(log)
			return nil, err
		}
		in.publisher = events.NewKafkaPublisher(p, cfg.Kafka.Topic)
		in.closers = append(in.closers, p.Close)
		h.RegisterCheck("kafka", p.Health)
		log.Info("publishing lifecycle events", "topic", cfg.Kafka.Topic)
	} else {
		in.publisher = events.NewLogPublisher(log)
	}

	return in, nil
}

// Close releases backends in reverse order of acquisition.
func (in *infra) Close(log *slog.Logger) {
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil {
			log.Warn("closing backend failed", "error", err)
		}
	}
	in.closers = nil
}
