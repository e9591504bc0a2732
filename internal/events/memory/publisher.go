package memory

import (
	"sync"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/interfaces"
)

// Publisher is an in-process notification log, keeping every published event
// in an append-only per-topic sequence. It is the default publisher when no
// brokers are configured, and the observable event stream in tests.
type Publisher struct {
	mu     sync.Mutex
	topics map[string][]any
}

func NewPublisher() *Publisher {
	return &Publisher{
		topics: make(map[string][]any),
	}
}

func (p *Publisher) Publish(topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.topics[topic] = append(p.topics[topic], event)
	return nil
}

// Events returns a copy of the events published to topic, in publish order.
func (p *Publisher) Events(topic string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := make([]any, len(p.topics[topic]))
	copy(copied, p.topics[topic])
	return copied
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
