// Package outbox relays rows written by the booking engine's transactional
// outbox to RabbitMQ. Splitting the write (inside the booking's own
// transaction) from the publish (here, asynchronously) avoids the
// dual-write problem: a crash between committing a state change and
// publishing its notification would otherwise either lose the event or
// publish one for a booking mutation that never committed.
package outbox

import (
	"context"
	"database/sql"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/servicecore/internal/database"
	"github.com/iliyamo/servicecore/internal/repository"
)

const (
	exchangeName = "outbox.events"
	batchSize    = 50
	maxAttempts  = 5
)

// Relay tails the notification_outbox table and publishes pending rows to
// a durable topic exchange, keyed by event type.
type Relay struct {
	DB      *sql.DB
	Outbox  *repository.OutboxRepo
	Conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRelay declares the exchange used for outbox delivery. conn may be nil
// (no broker configured); publish then becomes a no-op that still marks
// rows sent, so local development without RabbitMQ doesn't stall bookings.
func NewRelay(db *sql.DB, outbox *repository.OutboxRepo, conn *amqp.Connection) (*Relay, error) {
	r := &Relay{DB: db, Outbox: outbox, Conn: conn}
	if conn == nil {
		return r, nil
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, err
	}
	r.channel = ch
	return r, nil
}

// RunForever polls the outbox table on the given interval and publishes
// whatever is pending, until ctx is cancelled.
func (r *Relay) RunForever(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := r.RelayOnce(ctx); err != nil {
				log.Printf("outbox relay: %v", err)
			} else if n > 0 {
				log.Printf("outbox relay: published %d", n)
			}
		}
	}
}

// RelayOnce publishes one batch of pending rows and returns how many were
// delivered successfully.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	published := 0
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		rows, err := r.Outbox.FetchPendingTx(ctx, tx, batchSize)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := r.publish(ctx, row.EventType, row.Payload); err != nil {
				if err := r.Outbox.MarkFailedTx(ctx, tx, row.ID, maxAttempts); err != nil {
					return err
				}
				continue
			}
			if err := r.Outbox.MarkSentTx(ctx, tx, row.ID); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	return published, err
}

func (r *Relay) publish(ctx context.Context, routingKey string, body []byte) error {
	if r.channel == nil {
		return nil // no broker configured; treat as delivered so rows don't pile up forever
	}
	return r.channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
	})
}

// Close releases the underlying channel, if one was opened.
func (r *Relay) Close() error {
	if r.channel == nil {
		return nil
	}
	return r.channel.Close()
}
