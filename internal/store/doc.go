// Package store содержит клиентов backing-хранилищ.
//
// Каждый клиент:
//   - устанавливает соединение с ограниченным таймаутом
//     (недоступное хранилище — ошибка, а не зависание)
//   - отдаёт нативную health-проверку Probe (SELECT 1, ping и т.д.)
//   - возвращает типизированные ошибки из errors.go
//
// Атомарности между хранилищами нет — это ответственность
// (и сознательное ограничение) пакета workflow.
package store
