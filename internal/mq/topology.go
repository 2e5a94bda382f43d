package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Топология welcome-сообщений.
const (
	// ExchangeUsers — обменник событий пользователей.
	ExchangeUsers Exchange = "stackmate.users"

	// QueueWelcome — очередь welcome-сообщений.
	// Имя сохранено от исходной системы.
	QueueWelcome Queue = "welcome_messages"

	// RoutingKeyWelcome — ключ маршрутизации welcome-сообщений.
	RoutingKeyWelcome RoutingKey = "welcome"
)

// SetupTopology создаёт обменник, очередь и binding.
//
// Все объекты durable: сообщения переживают рестарт брокера.
// DLQ не настраивается — ошибки обработки возвращают сообщение
// в очередь (nack с requeue).
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeUsers), // name
			"direct",              // type
			true,                  // durable
			false,                 // auto-deleted
			false,                 // internal
			false,                 // no-wait
			nil,                   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeUsers, err)
		}

		_, err = ch.QueueDeclare(
			string(QueueWelcome), // name
			true,                 // durable
			false,                // auto-delete
			false,                // exclusive
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueWelcome, err)
		}

		err = ch.QueueBind(
			string(QueueWelcome),      // queue
			string(RoutingKeyWelcome), // routing key
			string(ExchangeUsers),     // exchange
			false,                     // no-wait
			nil,                       // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", QueueWelcome, err)
		}

		return nil
	})
}
