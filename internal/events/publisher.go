package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/fitflow-web/internal/config"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
)

// FoodLogSubmitted событие о принятой отправке дневника питания.
type FoodLogSubmitted struct {
	SubmissionID string                `json:"submission_id"`
	UserID       int                   `json:"user_id"`
	PlanID       *int                  `json:"plan_id,omitempty"`
	Date         string                `json:"date"`
	Entries      []models.FoodLogEntry `json:"entries"`
	Consistent   bool                  `json:"consistent"`
	SubmittedAt  time.Time             `json:"submitted_at"`
}

// Publisher публикует события в exchange с фиксированным ключом маршрутизации.
type Publisher struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// NewPublisher подключается к RabbitMQ и готовит exchange.
func NewPublisher(ctx context.Context, cfg config.RabbitMQ) (*Publisher, error) {
	const op = "events.NewPublisher"

	conn, err := Connect(ctx, cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := SetupChannel(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Publisher{
		conn:       conn,
		ch:         ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
	}, nil
}

// PublishFoodLogSubmitted публикует событие об отправке дневника.
func (p *Publisher) PublishFoodLogSubmitted(ctx context.Context, event FoodLogSubmitted) error {
	const op = "events.PublishFoodLogSubmitted"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := PublishMessage(p.ch, p.exchange, p.routingKey, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	chErr := p.ch.Close()
	connErr := p.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}

// PublishMessage публикует сообщение в JSON с постоянной доставкой.
func PublishMessage(ch *amqp.Channel, exchange, routingKey string, message any) error {
	const op = "events.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
