// Package workflow — демонстрационный клиент, выполняющий одну
// бизнес-операцию поверх всех хранилищ стека.
//
// CreateUser разворачивает профиль по пяти сервисам: строка в
// Postgres, документ в MongoDB, сессия в Redis, поисковый документ
// в Elasticsearch, welcome-сообщение в RabbitMQ. Атомарности между
// шагами нет — это сознательное ограничение учебного стека, а не
// недосмотр: ни 2PC, ни компенсаций, ни ключей идемпотентности.
// Отказ на середине оставляет уже записанные шаги как есть.
package workflow
