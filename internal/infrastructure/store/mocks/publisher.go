package mocks

import (
	"context"
	"sync"

	"github.com/example/gardenia/internal/domain/order"
)

// Publisher records published order events for assertions.
type Publisher struct {
	mu     sync.Mutex
	Events []order.Event

	PublishErr error
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, key string, event order.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PublishErr != nil {
		return p.PublishErr
	}
	p.Events = append(p.Events, event)
	return nil
}

// ByType returns recorded events of one type.
func (p *Publisher) ByType(eventType string) []order.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []order.Event
	for _, e := range p.Events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
