package store

import "errors"

// Общие ошибки хранилищ.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")

	// ErrSessionNotFound — сессия отсутствует в кэше.
	// Промах кэша — явный результат, а не исключение.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStoreUnreachable — хранилище недоступно
	// (таймаут соединения или отказ в подключении).
	ErrStoreUnreachable = errors.New("store unreachable")
)
