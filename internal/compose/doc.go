// Package compose управляет docker compose через CLI.
//
// SDK Docker сознательно не используется: вся работа со стеком
// сводится к четырём командам (version, ps, up, down), и запуск
// бинарника docker надёжнее, чем тянуть тяжёлый клиент API.
package compose
