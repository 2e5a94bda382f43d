// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// Все команды используют единый формат логирования;
// метрики экспортируются на /metrics в режиме watch.
package telemetry
