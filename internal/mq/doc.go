// Package mq — слой работы с RabbitMQ.
//
// Включает:
//   - connection.go — соединение с автоматическим reconnect
//   - topology.go — exchange и очередь welcome-сообщений
//   - publisher.go — публикация welcome-сообщений
//   - consumer.go — потребление с ручным ack/nack
//
// Broker используется в одном сценарии: при создании пользователя
// публикуется persistent welcome-сообщение, которое затем
// демонстрационно вычитывается из очереди. Connection дополнительно
// отдаёт нативную health-проверку для общего опроса стека.
package mq
