package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Stackmate/internal/domain"
	"github.com/shaiso/Stackmate/internal/mq"
	"github.com/shaiso/Stackmate/internal/store"
)

// Drainer — демонстрационное вычитывание очереди.
// Реализуется *mq.Consumer.
type Drainer interface {
	Drain(ctx context.Context, max int) (int, error)
}

// Archiver — сохранение маркера прогона.
// Реализуется *store.ArchiveStore.
type Archiver interface {
	ArchiveLastRun(ctx context.Context, startedAt time.Time) (string, error)
}

// Demo — сквозной демонстрационный сценарий поверх всего стека.
type Demo struct {
	client   *Client
	drainer  Drainer
	archiver Archiver
	api      *APIClient
	logger   *slog.Logger
}

// NewDemo создаёт демонстрационный сценарий.
// drainer, archiver и api опциональны: nil пропускает шаг.
func NewDemo(client *Client, drainer Drainer, archiver Archiver, api *APIClient, logger *slog.Logger) *Demo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Demo{
		client:   client,
		drainer:  drainer,
		archiver: archiver,
		api:      api,
		logger:   logger,
	}
}

// SampleProfiles возвращает демонстрационные профили пользователей.
func SampleProfiles() []domain.UserProfile {
	return []domain.UserProfile{
		{
			Name:  "Alice Johnson",
			Email: "alice@example.com",
			Preferences: map[string]any{
				"theme":         "dark",
				"notifications": true,
				"language":      "en",
			},
		},
		{
			Name:  "Bob Smith",
			Email: "bob@example.com",
			Preferences: map[string]any{
				"theme":         "light",
				"notifications": false,
				"language":      "es",
			},
		},
	}
}

// Run выполняет полный сценарий:
//
//  1. health-проверки всех хранилищ
//  2. создание демонстрационных пользователей по всем хранилищам
//  3. чтение первого пользователя обратно (строка + предпочтения)
//  4. полнотекстовый поиск
//  5. чтение кэшированной сессии
//  6. вычитывание welcome-сообщений
//  7. опрос placeholder API
//  8. загрузка маркера прогона в MinIO
//
// Ошибки отдельных шагов логируются и не прерывают сценарий:
// ценность демо — показать каждый сервис, а не упасть на первом.
// Возвращается ошибка только если ни один пользователь не создан.
func (d *Demo) Run(ctx context.Context) error {
	startedAt := time.Now()
	d.logger.Info("demo workflow started")

	// 1. Health-проверки.
	health := d.client.HealthCheck(ctx, 5*time.Second)
	for name, probe := range health {
		if probe.OK {
			d.logger.Info("store healthy", "service", name, "latency_ms", probe.LatencyMs)
		} else {
			d.logger.Warn("store unhealthy", "service", name, "error", probe.Error)
		}
	}

	// 2. Создание пользователей.
	var created []*domain.User
	for _, profile := range SampleProfiles() {
		user, err := d.client.CreateUser(ctx, profile)
		if err != nil {
			d.logger.Error("failed to create user", "name", profile.Name, "error", err)
			continue
		}
		created = append(created, user)

		// Пауза между операциями, как в учебном сценарии.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	if len(created) == 0 {
		return fmt.Errorf("demo: no users created")
	}

	// 3. Чтение записанного: строка из Postgres + предпочтения из MongoDB.
	user, prefs, err := d.client.FetchUser(ctx, created[0].ID)
	if err != nil {
		d.logger.Error("user readback failed", "user_id", created[0].ID, "error", err)
	} else {
		d.logger.Info("user read back", "user_id", user.ID, "email", user.Email, "preferences", len(prefs))
	}

	// 4. Поиск.
	hits, err := d.client.SearchUsers(ctx, "Alice")
	if err != nil {
		d.logger.Error("search failed", "error", err)
	} else {
		d.logger.Info("search completed", "query", "Alice", "hits", len(hits))
	}

	// 5. Кэшированная сессия первого пользователя.
	session, err := d.client.FetchSession(ctx, created[0].ID)
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		d.logger.Warn("no cached session found", "user_id", created[0].ID)
	case err != nil:
		d.logger.Error("session fetch failed", "error", err)
	default:
		d.logger.Info("cached session found", "user_id", session.UserID, "name", session.Name)
	}

	// 6. Welcome-сообщения.
	if d.drainer != nil {
		drainCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
		processed, err := d.drainer.Drain(drainCtx, len(created))
		cancel()
		if err != nil {
			d.logger.Error("message drain failed", "error", err)
		} else {
			d.logger.Info("welcome messages processed", "count", processed)
		}
	}

	// 7. Placeholder API.
	if d.api != nil {
		for _, endpoint := range []string{"/health", "/status"} {
			data, err := d.api.Get(ctx, endpoint)
			if err != nil {
				d.logger.Error("api call failed", "endpoint", endpoint, "error", err)
				continue
			}
			d.logger.Info("api call successful", "endpoint", endpoint, "response", data)
		}
	}

	// 8. Маркер прогона.
	if d.archiver != nil {
		name, err := d.archiver.ArchiveLastRun(ctx, startedAt)
		if err != nil {
			d.logger.Error("archive failed", "error", err)
		} else {
			d.logger.Info("last run archived", "object", name)
		}
	}

	d.logger.Info("demo workflow finished", "users_created", len(created))
	return nil
}

// WelcomeHandler возвращает mq.Handler, логирующий welcome-сообщения.
func WelcomeHandler(logger *slog.Logger) mq.Handler {
	return func(ctx context.Context, d *mq.Delivery) error {
		var payload mq.WelcomePayload
		if err := json.Unmarshal(d.Message.Payload, &payload); err != nil {
			return fmt.Errorf("parse welcome payload: %w", err)
		}

		logger.Info("processing message",
			"type", d.Message.Type,
			"user_id", payload.UserID,
			"name", payload.Name,
		)
		return nil
	}
}
