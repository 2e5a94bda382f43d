// Package stack описывает фиксированный набор backing-сервисов.
//
// ServiceSpec — статическое описание одного сервиса: имя, образ,
// адреса и подсказка порядка запуска. Набор создаётся при старте
// процесса и не меняется до завершения.
//
// Здесь же живёт классификация статусов docker compose:
// строка статуса всегда отображается в Healthy / Starting / Down,
// состояние "unknown" невозможно.
package stack
