package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Stackmate/internal/domain"
	"github.com/shaiso/Stackmate/internal/mq"
	"github.com/shaiso/Stackmate/internal/store"
	"github.com/shaiso/Stackmate/internal/telemetry"
)

// Client выполняет cross-store операции над стеком.
//
// Каждая операция stateless: клиент держит только открытые
// соединения. Два экземпляра не предполагаются работающими
// над одними данными одновременно.
type Client struct {
	users    UserStore
	prefs    PreferenceStore
	sessions SessionStore
	search   SearchIndex
	notifier Notifier

	broker  Prober
	api     Prober
	archive Prober

	logger *slog.Logger
}

// Config — конфигурация Client.
type Config struct {
	Users    UserStore
	Prefs    PreferenceStore
	Sessions SessionStore
	Search   SearchIndex
	Notifier Notifier

	// Broker, API и Archive опциональны: nil исключает сервис
	// из health-проверки.
	Broker  Prober
	API     Prober
	Archive Prober

	Logger *slog.Logger
}

// New создаёт новый Client.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		users:    cfg.Users,
		prefs:    cfg.Prefs,
		sessions: cfg.Sessions,
		search:   cfg.Search,
		notifier: cfg.Notifier,
		broker:   cfg.Broker,
		api:      cfg.API,
		archive:  cfg.Archive,
		logger:   logger,
	}
}

// CreateUser разворачивает профиль по всем хранилищам.
//
// Шаги выполняются последовательно: все последующие используют
// идентификатор, сгенерированный первым. Атомарности нет: отказ
// на шаге N оставляет шаги 1..N-1 записанными и возвращает ошибку.
//
// Отмена контекста прекращает выдачу следующих шагов, но не
// откатывает уже выполненные.
func (c *Client) CreateUser(ctx context.Context, profile domain.UserProfile) (*domain.User, error) {
	logger := c.logger.With("user_name", profile.Name)
	logger.Info("creating user across stores")

	// 1. Postgres — мастер-данные; генерирует user id.
	user, err := c.users.Create(ctx, profile)
	if err != nil {
		c.observeOp("create_user", false)
		return nil, fmt.Errorf("create user row: %w", err)
	}
	logger = logger.With("user_id", user.ID)
	logger.Debug("user row stored")

	// 2. MongoDB — предпочтения со свободной схемой.
	if err := c.stepCtx(ctx); err != nil {
		return user, err
	}
	if err := c.prefs.Save(ctx, user.ID, profile.Preferences); err != nil {
		c.observeOp("create_user", false)
		return user, fmt.Errorf("save preferences: %w", err)
	}
	logger.Debug("preferences stored")

	// 3. Redis — сессия с TTL.
	if err := c.stepCtx(ctx); err != nil {
		return user, err
	}
	session := &domain.Session{
		UserID:    user.ID,
		Name:      user.Name,
		Token:     uuid.New().String(),
		LoginTime: time.Now(),
		Status:    "active",
	}
	if err := c.sessions.Put(ctx, session); err != nil {
		c.observeOp("create_user", false)
		return user, fmt.Errorf("cache session: %w", err)
	}
	logger.Debug("session cached")

	// 4. Elasticsearch — поисковый документ.
	if err := c.stepCtx(ctx); err != nil {
		return user, err
	}
	if err := c.search.Index(ctx, user); err != nil {
		c.observeOp("create_user", false)
		return user, fmt.Errorf("index user: %w", err)
	}
	logger.Debug("user indexed")

	// 5. RabbitMQ — welcome-сообщение.
	if err := c.stepCtx(ctx); err != nil {
		return user, err
	}
	err = c.notifier.PublishWelcome(ctx, mq.WelcomePayload{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	})
	if err != nil {
		c.observeOp("create_user", false)
		return user, fmt.Errorf("publish welcome: %w", err)
	}

	logger.Info("user created across all stores")
	c.observeOp("create_user", true)
	return user, nil
}

// SearchUsers выполняет полнотекстовый поиск пользователей.
// Поиск до первой индексации возвращает пустой срез, не ошибку.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.SearchHit, error) {
	hits, err := c.search.Search(ctx, query)
	if err != nil {
		c.observeOp("search_users", false)
		return nil, fmt.Errorf("search users: %w", err)
	}

	c.observeOp("search_users", true)
	c.logger.Debug("search completed", "query", query, "hits", len(hits))
	return hits, nil
}

// FetchSession возвращает кэшированную сессию пользователя.
// Промах кэша — store.ErrSessionNotFound, не замаскированные данные.
func (c *Client) FetchSession(ctx context.Context, userID int64) (*domain.Session, error) {
	session, err := c.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// FetchUser читает строку пользователя из Postgres вместе с его
// предпочтениями из MongoDB.
//
// Отсутствующие предпочтения — не ошибка: создание не атомарно,
// пользователь мог быть записан частично.
func (c *Client) FetchUser(ctx context.Context, userID int64) (*domain.User, map[string]any, error) {
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		c.observeOp("fetch_user", false)
		return nil, nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	prefs, err := c.prefs.Get(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.observeOp("fetch_user", false)
		return nil, nil, fmt.Errorf("get preferences %d: %w", userID, err)
	}

	c.observeOp("fetch_user", true)
	return user, prefs, nil
}

// stepCtx проверяет контекст между шагами fan-out.
func (c *Client) stepCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		c.logger.Warn("create user cancelled mid-flight, earlier steps remain committed")
		return fmt.Errorf("create user cancelled: %w", err)
	}
	return nil
}

func (c *Client) observeOp(op string, ok bool) {
	outcome := telemetry.OutcomeOK
	if !ok {
		outcome = telemetry.OutcomeError
	}
	telemetry.WorkflowOpsTotal.WithLabelValues(op, outcome).Inc()
}
