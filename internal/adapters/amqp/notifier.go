// Package amqp publishes trip notifications to a RabbitMQ topic exchange so
// external consumers (mailers, push gateways) can react to trip events.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Publisher implements notifier.Sink over a durable topic exchange. Routing
// keys are "trip.<type>", e.g. "trip.join_request".
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

type envelope struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	TripID      string            `json:"tripId"`
	RecipientID string            `json:"recipientId"`
	Payload     map[string]string `json:"payload,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func (p *Publisher) Append(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(envelope{
		ID:          string(n.ID),
		Type:        string(n.Type),
		TripID:      string(n.TripID),
		RecipientID: string(n.RecipientID),
		Payload:     n.Payload,
		CreatedAt:   n.CreatedAt,
	})
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		"trip."+string(n.Type),
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			MessageId:   string(n.ID),
			Timestamp:   n.CreatedAt,
			Body:        body,
		})
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
