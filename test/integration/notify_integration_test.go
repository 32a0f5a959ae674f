package integration

import (
	"context"
	"testing"
	"time"

	"lastcall/internal/notify"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBroker_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := SetupTestRedis(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	broker, err := notify.NewRedisBroker(ctx, client, "lastcall-test", logger)
	require.NoError(t, err)

	t.Run("flag update reaches the subscriber", func(t *testing.T) {
		updates, cancel, err := broker.SubscribeFlag(ctx, "OF001")
		require.NoError(t, err)
		defer cancel()

		update := notify.FlagUpdate{OfferID: "OF001", Available: false}
		require.NoError(t, broker.PublishFlag(ctx, update))

		select {
		case got := <-updates:
			assert.Equal(t, update, got)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for flag update")
		}
	})

	t.Run("subscriptions are scoped per offer", func(t *testing.T) {
		updates, cancel, err := broker.SubscribeFlag(ctx, "OF002")
		require.NoError(t, err)
		defer cancel()

		require.NoError(t, broker.PublishFlag(ctx, notify.FlagUpdate{OfferID: "OF999", Available: false}))
		require.NoError(t, broker.PublishFlag(ctx, notify.FlagUpdate{OfferID: "OF002", Available: true}))

		select {
		case got := <-updates:
			// The OF999 publish must not leak into OF002's channel.
			assert.Equal(t, "OF002", got.OfferID)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for flag update")
		}
	})

	t.Run("cancel closes the update channel", func(t *testing.T) {
		updates, cancel, err := broker.SubscribeFlag(ctx, "OF003")
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-updates:
			assert.False(t, ok)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for channel close")
		}
	})

	t.Run("cart change publish succeeds", func(t *testing.T) {
		change := notify.CartChange{CustomerID: "C001", LineCount: 2}
		assert.NoError(t, broker.PublishCartChange(ctx, change))
	})
}
