package domain

import "time"

// UserProfile — входные данные для создания пользователя.
//
// Профиль разворачивается по нескольким хранилищам:
// строка в Postgres, документ предпочтений в MongoDB,
// сессия в Redis, поисковый документ в Elasticsearch
// и welcome-сообщение в RabbitMQ.
type UserProfile struct {
	// Name — имя пользователя.
	Name string `json:"name"`

	// Email — адрес электронной почты.
	Email string `json:"email"`

	// Preferences — произвольные настройки пользователя
	// (тема, язык, уведомления и т.д.). Хранятся в MongoDB.
	Preferences map[string]any `json:"preferences,omitempty"`
}

// User — пользователь, сохранённый в реляционном хранилище.
type User struct {
	// ID — идентификатор, сгенерированный Postgres (SERIAL).
	ID int64 `json:"id"`

	// Name — имя пользователя.
	Name string `json:"name"`

	// Email — адрес электронной почты.
	Email string `json:"email"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`
}

// SearchHit — один результат полнотекстового поиска.
type SearchHit struct {
	// UserID — идентификатор найденного пользователя.
	UserID string `json:"user_id"`

	// Score — релевантность результата.
	Score float64 `json:"score"`

	// Source — исходный проиндексированный документ.
	Source map[string]any `json:"source"`
}
