package service

import (
	"context"
	"errors"
	"fmt"
	"salon/config"
	"salon/infras/kafka"
	"salon/internal/domains/notification/model"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

var errNotDelivered = errors.New("email was not delivered")

// Consumer drains queued confirmation emails and hands them to a delivering sender.
type Consumer struct {
	client kafka.Client
	sender Sender
	topic  string
}

func NewConsumer(cfg *config.Config, client kafka.Client, sender Sender) *Consumer {
	return &Consumer{
		client: client,
		sender: sender,
		topic:  Topic(cfg),
	}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log.Info().Str("topic", c.topic).Msg("Notification consumer started")

	if err := c.client.Consume(ctx, "", c.topic, c.Handle); err != nil {
		return fmt.Errorf("failed to consume notifications: %w", err)
	}

	return nil
}

// Handle delivers one queued message. Undecodable messages are dropped so they do not block the partition.
func (c *Consumer) Handle(ctx context.Context, message kafkaGo.Message) error {
	msg, err := kafka.Decode[model.Message](message)
	if err != nil {
		log.Warn().Err(err).Str("key", string(message.Key)).Msg("dropping malformed notification")

		return nil
	}

	res, err := c.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}

	if !res.Success {
		return fmt.Errorf("%w: %s", errNotDelivered, res.Message)
	}

	log.Info().Str("to", msg.To).Msg("Queued notification delivered")

	return nil
}
