package pubsub

//go:generate go run go.uber.org/mock/mockgen -source=./pubsub.go -destination=./mocks/pubsub_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/shared/constant"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultChannel = "salon:changes"

const (
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionDeleted     = "deleted"
	ActionWriteFailed = "write_failed"
)

// Event announces a change to one record of a collection.
type Event struct {
	Collection string `json:"collection"`
	Action     string `json:"action"`
	ID         string `json:"id,omitempty"`
	Error      string `json:"error,omitempty"`
}

type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context, onEvent func(event Event)) error
}

type redisBus struct {
	client  *goRedis.Client
	otel    otel.Otel
	channel string
}

func New(client *goRedis.Client, cfg *config.Config, otel otel.Otel) Bus {
	channel := cfg.Realtime.Channel
	if channel == constant.Empty {
		channel = defaultChannel
	}

	return &redisBus{
		client:  client,
		otel:    otel,
		channel: channel,
	}
}

func (b *redisBus) Publish(ctx context.Context, event Event) (err error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelPubSubScopeName, constant.OtelPubSubScopeName+".Publish")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		"pubsub.collection": event.Collection,
		"pubsub.action":     event.Action,
	})

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		log.Error().Err(err).Str("channel", b.channel).Msg("failed to publish event")

		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe forwards every event to onEvent until ctx is cancelled.
func (b *redisBus) Subscribe(ctx context.Context, onEvent func(event Event)) error {
	sub := b.client.Subscribe(ctx, b.channel)

	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()

		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	log.Info().Str("channel", b.channel).Msg("Subscribed to change events")

	go func() {
		defer sub.Close()

		messages := sub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Warn().Err(err).Msg("dropping malformed change event")

					continue
				}

				onEvent(event)
			}
		}
	}()

	return nil
}
