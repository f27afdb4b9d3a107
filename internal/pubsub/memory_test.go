package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDeliversToTopicSubscribers(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()

	msgs, cancel := b.Subscribe(ctx, "messages")
	defer cancel()
	other, cancelOther := b.Subscribe(ctx, "orders")
	defer cancelOther()

	require.NoError(t, b.Publish(ctx, "messages", []byte(`[1]`)))

	select {
	case got := <-msgs:
		assert.Equal(t, `[1]`, string(got))
	case <-time.After(time.Second):
		t.Fatal("no delivery")
	}
	select {
	case got := <-other:
		t.Fatalf("unexpected delivery on other topic: %s", got)
	default:
	}
}

func TestMemoryCancelDeregisters(t *testing.T) {
	b := NewMemory()
	ch, cancel := b.Subscribe(context.Background(), "messages")
	require.Equal(t, 1, b.Subscribers("messages"))

	cancel()
	cancel()
	assert.Equal(t, 0, b.Subscribers("messages"))
	_, open := <-ch
	assert.False(t, open)

	require.NoError(t, b.Publish(context.Background(), "messages", []byte("x")))
}

func TestMemoryContextCancelDeregisters(t *testing.T) {
	b := NewMemory()
	ctx, stop := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx, "messages")
	stop()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after context cancel")
	}
	assert.Equal(t, 0, b.Subscribers("messages"))
}

func TestMemorySlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewMemory()
	_, cancel := b.Subscribe(context.Background(), "messages")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			_ = b.Publish(context.Background(), "messages", []byte("x"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
