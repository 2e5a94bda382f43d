package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Stackmate/internal/compose"
	"github.com/shaiso/Stackmate/internal/config"
	"github.com/shaiso/Stackmate/internal/fixtures"
	"github.com/shaiso/Stackmate/internal/mq"
	"github.com/shaiso/Stackmate/internal/orchestrator"
	"github.com/shaiso/Stackmate/internal/store"
	"github.com/shaiso/Stackmate/internal/workflow"
)

// Deps — общие зависимости команд, создаваемые лениво.
type Deps struct {
	ConfigPath string
	Logger     *slog.Logger
}

// Config загружает конфигурацию.
func (d *Deps) Config() (*config.Config, error) {
	return config.Load(d.ConfigPath)
}

// Runner создаёт compose runner по конфигурации.
func (d *Deps) Runner(cfg *config.Config) compose.Runner {
	return compose.NewCLIRunner(cfg.Compose.File, cfg.Compose.Project, d.Logger)
}

// Orchestrator создаёт оркестратор стека.
func (d *Deps) Orchestrator(cfg *config.Config) *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.Config{
		Runner:         d.Runner(cfg),
		FixturesWriter: fixtures.NewWriter(cfg.Fixtures.Dir),
		GracePeriod:    cfg.Bootstrap.GracePeriod,
		PollTimeout:    cfg.Bootstrap.PollTimeout,
		ProbeTimeout:   cfg.Bootstrap.ProbeTimeout,
		Logger:         d.Logger,
	})
}

// Workflow собирает workflow-клиента поверх реальных хранилищ.
//
// Возвращает клиента, демонстрационный сценарий и функцию
// закрытия соединений. Любое недоступное хранилище — ошибка
// с ограниченным таймаутом, не зависание.
func (d *Deps) Workflow(ctx context.Context, cfg *config.Config) (*workflow.Client, *workflow.Demo, func(), error) {
	logger := d.Logger
	dial := cfg.Stores.DialTimeout

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Postgres
	pool, err := store.NewPool(ctx, cfg.Stores.Postgres, dial)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("postgres: %w", err)
	}
	closers = append(closers, pool.Close)
	logger.Info("postgres connected")

	users := store.NewUserRepo(pool)
	if err := users.EnsureSchema(ctx); err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	// MongoDB
	prefs, err := store.NewPreferenceStore(ctx, cfg.Stores.Mongo, dial)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("mongodb: %w", err)
	}
	closers = append(closers, func() { prefs.Close(context.Background()) })
	logger.Info("mongodb connected")

	// Redis
	sessions, err := store.NewSessionStore(ctx, cfg.Stores.Redis, dial)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("redis: %w", err)
	}
	closers = append(closers, func() { sessions.Close() })
	logger.Info("redis connected")

	// Elasticsearch
	search, err := store.NewUserIndex(cfg.Stores.Elasticsearch, dial)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("elasticsearch: %w", err)
	}
	logger.Info("elasticsearch client ready")

	// RabbitMQ
	conn, err := mq.NewConnection(cfg.Stores.RabbitMQ.URL, dial, logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("rabbitmq: %w", err)
	}
	closers = append(closers, func() { conn.Close() })
	logger.Info("rabbitmq connected")

	if err := mq.SetupTopology(ctx, conn); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("rabbitmq topology: %w", err)
	}

	publisher := mq.NewPublisher(conn, logger)
	consumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
		Queue:    string(mq.QueueWelcome),
		Handler:  workflow.WelcomeHandler(logger),
		Prefetch: 1,
	})

	// MinIO
	archive, err := store.NewArchiveStore(cfg.Stores.MinIO)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("minio: %w", err)
	}

	api := workflow.NewAPIClient(cfg.Stores.API.BaseURL)

	client := workflow.New(workflow.Config{
		Users:    users,
		Prefs:    prefs,
		Sessions: sessions,
		Search:   search,
		Notifier: publisher,
		Broker:   conn,
		API:      api,
		Archive:  archive,
		Logger:   logger,
	})

	demo := workflow.NewDemo(client, consumer, archive, api, logger)

	return client, demo, cleanup, nil
}
