package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/shaiso/Stackmate/internal/config"
	"github.com/shaiso/Stackmate/internal/domain"
	"github.com/shaiso/Stackmate/internal/stack"
)

// sessionKeyPrefix — префикс ключей сессий в Redis.
// Формат сохранён от исходной системы: "user_session:<user_id>".
const sessionKeyPrefix = "user_session:"

// SessionKey возвращает ключ сессии пользователя.
func SessionKey(userID int64) string {
	return fmt.Sprintf("%s%d", sessionKeyPrefix, userID)
}

// SessionStore кэширует сессии пользователей в Redis.
//
// Health-проверка обёрнута в circuit breaker: после трёх
// последовательных отказов probes перестают ходить в Redis
// до истечения таймаута breaker-а.
type SessionStore struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
}

// NewSessionStore подключается к Redis и проверяет соединение.
func NewSessionStore(ctx context.Context, cfg config.RedisConfig, dialTimeout time.Duration) (*SessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  dialTimeout,
		WriteTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping redis: %v", ErrStoreUnreachable, err)
	}

	return &SessionStore{
		client:  client,
		breaker: newBreaker("redis"),
	}, nil
}

// Put кэширует сессию с TTL domain.SessionTTL.
func (s *SessionStore) Put(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := SessionKey(session.UserID)
	if err := s.client.Set(ctx, key, data, domain.SessionTTL).Err(); err != nil {
		return fmt.Errorf("set session %s: %w", key, err)
	}
	return nil
}

// Get возвращает кэшированную сессию.
// Промах кэша — (nil, ErrSessionNotFound), не ошибка транспорта.
func (s *SessionStore) Get(ctx context.Context, userID int64) (*domain.Session, error) {
	key := SessionKey(userID)

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", key, err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", key, err)
	}
	return &session, nil
}

// Probe выполняет нативную health-проверку (PING) через breaker.
func (s *SessionStore) Probe(ctx context.Context) domain.ProbeResult {
	start := time.Now()

	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.client.Ping(ctx).Err()
	})

	result := domain.ProbeResult{
		Name:      stack.ServiceRedis,
		OK:        err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// Close закрывает соединение с Redis.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

// newBreaker настраивает circuit breaker: срабатывает после трёх
// последовательных отказов, сбрасывается через 30 секунд.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}
