package pubsub

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Redis relays publications through Redis channels so every instance's
// subscribers see them.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Publish(ctx context.Context, topic string, payload []byte) error {
	return r.client.Publish(ctx, topic, payload).Err()
}

func (r *Redis) Subscribe(ctx context.Context, topic string) (<-chan []byte, func()) {
	ctx, stop := context.WithCancel(ctx)
	ps := r.client.Subscribe(ctx, topic)
	out := make(chan []byte, subscriberBuffer)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			stop()
			_ = ps.Close()
		})
	}
	go func() {
		defer close(out)
		defer cancel()
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
				}
			}
		}
	}()
	return out, cancel
}
