package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// RabbitPublisher はtopic exchangeへ注文イベントを送る。
type RabbitPublisher struct {
	ch *amqp.Channel
}

func NewRabbitPublisher(conn *amqp.Connection) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare %s: %w", EventsExchange, err)
	}

	return &RabbitPublisher{ch: ch}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) PublishOrderSubmitted(ctx context.Context, order model.Order, items []model.OrderItem) error {
	ev := newOrderSubmitted(order, items, time.Now())

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.EventType, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		OrderSubmittedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    ev.OccurredAt,
			Type:         ev.EventType,
			Body:         body,
		},
	)
}

// LogPublisher はRabbitMQ未設定時の代替。ログに出すだけ。
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishOrderSubmitted(_ context.Context, order model.Order, items []model.OrderItem) error {
	ev := newOrderSubmitted(order, items, time.Now())
	p.log.Info().
		Str("event_id", ev.EventID).
		Str("routing_key", OrderSubmittedRoutingKey).
		Str("order_id", order.ID).
		Str("total", order.Total.String()).
		Int("items", len(items)).
		Msg("order event (not published)")
	return nil
}
