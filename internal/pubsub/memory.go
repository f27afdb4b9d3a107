package pubsub

import (
	"context"
	"sync"
)

type subscriber struct {
	ch   chan []byte
	once sync.Once
}

// Memory is a single-process broker. Slow subscribers drop messages instead
// of blocking publishers.
type Memory struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
}

func NewMemory() *Memory {
	return &Memory{topics: make(map[string]map[*subscriber]struct{})}
}

func (m *Memory) Publish(_ context.Context, topic string, payload []byte) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for s := range m.topics[topic] {
		select {
		case s.ch <- payload:
		default:
		}
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, topic string) (<-chan []byte, func()) {
	s := &subscriber{ch: make(chan []byte, subscriberBuffer)}
	m.mu.Lock()
	if m.topics[topic] == nil {
		m.topics[topic] = make(map[*subscriber]struct{})
	}
	m.topics[topic][s] = struct{}{}
	m.mu.Unlock()

	cancel := func() {
		s.once.Do(func() {
			m.mu.Lock()
			delete(m.topics[topic], s)
			if len(m.topics[topic]) == 0 {
				delete(m.topics, topic)
			}
			m.mu.Unlock()
			close(s.ch)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return s.ch, cancel
}

// Subscribers reports the live subscriber count for a topic.
func (m *Memory) Subscribers(topic string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.topics[topic])
}
