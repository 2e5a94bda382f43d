package workflow

import (
	"context"

	"github.com/shaiso/Stackmate/internal/domain"
	"github.com/shaiso/Stackmate/internal/mq"
)

// Интерфейсы хранилищ. Реализуются пакетом store;
// в тестах подменяются in-memory фейками.

// Prober — нативная health-проверка одного сервиса.
// Реализуется каждым клиентом хранилища, *mq.Connection и *APIClient.
type Prober interface {
	Probe(ctx context.Context) domain.ProbeResult
}

// UserStore — реляционное хранилище пользователей.
// Реализуется *store.UserRepo.
type UserStore interface {
	Create(ctx context.Context, profile domain.UserProfile) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Probe(ctx context.Context) domain.ProbeResult
}

// PreferenceStore — документное хранилище предпочтений.
// Реализуется *store.PreferenceStore.
type PreferenceStore interface {
	Save(ctx context.Context, userID int64, prefs map[string]any) error
	Get(ctx context.Context, userID int64) (map[string]any, error)
	Probe(ctx context.Context) domain.ProbeResult
}

// SessionStore — кэш сессий.
// Реализуется *store.SessionStore.
type SessionStore interface {
	Put(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, userID int64) (*domain.Session, error)
	Probe(ctx context.Context) domain.ProbeResult
}

// SearchIndex — полнотекстовый индекс пользователей.
// Реализуется *store.UserIndex.
type SearchIndex interface {
	Index(ctx context.Context, user *domain.User) error
	Search(ctx context.Context, query string) ([]domain.SearchHit, error)
	Probe(ctx context.Context) domain.ProbeResult
}

// Notifier — публикация welcome-сообщений.
// Реализуется *mq.Publisher.
type Notifier interface {
	PublishWelcome(ctx context.Context, payload mq.WelcomePayload) error
}
