// Package pubsub fans published payloads out to live subscribers keyed by topic.
package pubsub

import "context"

type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe registers a subscriber. The returned cancel func deregisters it
	// and closes the channel; cancelling ctx does the same.
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func())
}

const subscriberBuffer = 16
