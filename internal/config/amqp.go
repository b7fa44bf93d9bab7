package config

import (
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NewAMQPConnection dials RabbitMQ using RABBITMQ_URL (falling back to
// AMQP_URL). If neither is set, or the dial fails, it returns nil and
// callers degrade to the outbox relay's no-op publish path rather than
// failing startup over an optional dependency.
func NewAMQPConnection() *amqp.Connection {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		return nil
	}
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial: amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		return nil
	}
	return conn
}
