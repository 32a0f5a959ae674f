package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// RedisBroker implements Broker on Redis pub/sub. Flag updates fan out on a
// per-offer channel, cart changes on a per-customer channel, so subscribers
// only receive traffic for the record they watch.
type RedisBroker struct {
	client    *redis.Client
	keyPrefix string
	logger    zerolog.Logger
}

// NewRedisBroker creates a broker on an existing Redis client. It pings the
// server to surface connectivity problems at startup rather than on the
// first publish.
func NewRedisBroker(ctx context.Context, client *redis.Client, keyPrefix string, logger zerolog.Logger) (*RedisBroker, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisBroker{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger.With().Str("component", "redis-broker").Logger(),
	}, nil
}

func (b *RedisBroker) flagChannel(offerID string) string {
	return fmt.Sprintf("%s:offer-flag:%s", b.keyPrefix, offerID)
}

func (b *RedisBroker) cartChannel(customerID string) string {
	return fmt.Sprintf("%s:cart:%s", b.keyPrefix, customerID)
}

// PublishFlag announces an offer's persisted vendor flag on the offer's
// channel.
func (b *RedisBroker) PublishFlag(ctx context.Context, update FlagUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal flag update: %w", err)
	}

	if err := b.client.Publish(ctx, b.flagChannel(update.OfferID), data).Err(); err != nil {
		b.logger.Error().
			Err(err).
			Str("offer_id", update.OfferID).
			Msg("failed to publish flag update")
		return fmt.Errorf("failed to publish flag update: %w", err)
	}

	b.logger.Debug().
		Str("offer_id", update.OfferID).
		Bool("available", update.Available).
		Msg("flag update published")

	return nil
}

// PublishCartChange announces a cart mutation on the customer's channel.
func (b *RedisBroker) PublishCartChange(ctx context.Context, change CartChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal cart change: %w", err)
	}

	if err := b.client.Publish(ctx, b.cartChannel(change.CustomerID), data).Err(); err != nil {
		b.logger.Error().
			Err(err).
			Str("customer_id", change.CustomerID).
			Msg("failed to publish cart change")
		return fmt.Errorf("failed to publish cart change: %w", err)
	}

	return nil
}

// SubscribeFlag subscribes to vendor-flag updates for one offer. The
// returned cancel func releases the Redis subscription and closes the
// channel; it is safe to call more than once.
func (b *RedisBroker) SubscribeFlag(ctx context.Context, offerID string) (<-chan FlagUpdate, func(), error) {
	channel := b.flagChannel(offerID)

	subCtx, cancel := context.WithCancel(ctx)

	pubsub := b.client.Subscribe(subCtx, channel)

	// Wait for subscription confirmation before claiming updates will arrive.
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to subscribe to flag channel: %w", err)
	}

	updates := make(chan FlagUpdate, 1)

	go func() {
		defer func() {
			_ = pubsub.Close()
			close(updates)
		}()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var update FlagUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					b.logger.Warn().
						Err(err).
						Str("offer_id", offerID).
						Msg("failed to unmarshal flag update")
					continue
				}

				select {
				case updates <- update:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	b.logger.Debug().
		Str("offer_id", offerID).
		Str("channel", channel).
		Msg("subscribed to flag updates")

	return updates, cancel, nil
}
