package domain

import "time"

// SessionTTL — время жизни кэшированной сессии.
const SessionTTL = time.Hour

// Session — сессия пользователя, кэшированная в Redis.
//
// Сессия создаётся при создании пользователя и живёт SessionTTL.
// Ключ в Redis: "user_session:<user_id>".
type Session struct {
	// UserID — идентификатор пользователя.
	UserID int64 `json:"user_id"`

	// Name — имя пользователя (денормализовано для быстрого доступа).
	Name string `json:"name"`

	// Token — уникальный токен сессии.
	Token string `json:"token"`

	// LoginTime — время создания сессии.
	LoginTime time.Time `json:"login_time"`

	// Status — статус сессии ("active").
	Status string `json:"status"`
}

// IsActive возвращает true, если сессия активна.
func (s *Session) IsActive() bool {
	return s.Status == "active"
}
