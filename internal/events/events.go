// Package events publishes order domain events to a message broker.
package events

import (
	"context"
	"fmt"

	"github.com/safar/go-sql-notes/internal/config"
)

const (
	RKOrderCreated       = "order.created"
	RKOrderStatusUpdated = "order.status_updated"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// New connects the publisher selected by cfg.Backend.
func New(cfg config.EventsConfig) (Publisher, error) {
	switch cfg.Backend {
	case config.EventsBackendRabbitMQ:
		return NewRabbit(cfg.RabbitURL, cfg.RabbitExchange)
	case config.EventsBackendKafka:
		k := NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if !k.Enabled() {
			return nil, fmt.Errorf("kafka events: %w", ErrNoBrokers)
		}
		return k, nil
	case config.EventsBackendNone, "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
