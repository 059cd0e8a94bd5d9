// Package service holds side effects triggered by committed reservations.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/dinner-invite/internal/model"
	"github.com/iliyamo/dinner-invite/internal/pkg/logger"
	q "github.com/iliyamo/dinner-invite/internal/queue"
)

// Publisher sends a GuestSeatedEvent to RabbitMQ for every committed
// reservation. It satisfies reservation.Notifier.
type Publisher struct {
	URL string
	// Timeout bounds one publish, broker handshake included. It runs inside
	// the guest's request, so a dead broker must not stall the redirect.
	Timeout time.Duration
	now     func() time.Time
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{URL: url, Timeout: q.DefaultDialTimeout, now: time.Now}
}

// Reserved publishes r to the "guests.seated" queue. Errors are logged and
// returned so the caller can choose to ignore them. Messages are marked as
// persistent.
func (p *Publisher) Reserved(ctx context.Context, r model.Reservation) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = q.DefaultDialTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := q.Dial(ctx, p.URL, timeout)
	if err != nil {
		logger.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.GuestSeatedQueue, // name
		true,               // durable
		false,              // autoDelete
		false,              // exclusive
		false,              // noWait
		nil,                // args
	); err != nil {
		logger.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(q.NewGuestSeatedEvent(r, p.now()))
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                 // default exchange
		q.GuestSeatedQueue, // routing key = queue name
		false,              // mandatory
		false,              // immediate
		pub,
	); err != nil {
		logger.Warn("rabbitmq: publish failed", zap.Error(err))
		return err
	}
	return nil
}
