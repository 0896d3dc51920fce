package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tago-service/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeKind = "topic"

// RabbitMQPublisher publishes domain events to a topic exchange
type RabbitMQPublisher struct {
	exchange string
	logger   logger.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQPublisher dials url and declares exchange
func NewRabbitMQPublisher(url, exchange string, logger logger.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	return &RabbitMQPublisher{
		exchange: exchange,
		logger:   logger,
		conn:     conn,
		channel:  ch,
	}, nil
}

// Publish sends payload as JSON under routingKey. amqp channels are not
// safe for concurrent publishing, hence the mutex.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.Debug("Event published", "exchange", p.exchange, "routingKey", routingKey)
	return nil
}

// Close closes the channel and connection
func (p *RabbitMQPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher drops events; used when no broker is configured
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	return nil
}
