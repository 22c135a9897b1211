package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

var ErrNoBrokers = errors.New("no kafka brokers configured")

// Kafka writes events to a single topic keyed by routing key, so all events
// of one kind land on the same partition.
type Kafka struct {
	Brokers []string
	writer  *kafka.Writer
}

func NewKafka(brokersCSV, topic string) *Kafka {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}

	k := &Kafka{Brokers: brokers}
	if k.Enabled() {
		k.writer = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		}
	}
	return k
}

func (k *Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

func (k *Kafka) Publish(ctx context.Context, routingKey string, payload any) error {
	if !k.Enabled() {
		return ErrNoBrokers
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:     []byte(routingKey),
		Value:   data,
		Time:    time.Now().UTC(),
		Headers: []kafka.Header{{Key: "routing_key", Value: []byte(routingKey)}},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
