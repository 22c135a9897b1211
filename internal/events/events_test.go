package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safar/go-sql-notes/internal/config"
)

func TestNewNone(t *testing.T) {
	p, err := New(config.EventsConfig{Backend: config.EventsBackendNone})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.Publish(context.Background(), RKOrderCreated, map[string]int{"order_id": 1}))
	assert.NoError(t, p.Close())
}

func TestNewKafkaWithoutBrokers(t *testing.T) {
	_, err := New(config.EventsConfig{Backend: config.EventsBackendKafka, KafkaBrokers: " , "})
	assert.ErrorIs(t, err, ErrNoBrokers)
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(config.EventsConfig{Backend: "sqs"})
	assert.Error(t, err)
}

func TestNewKafkaParsesBrokers(t *testing.T) {
	k := NewKafka("kafka-1:9092, kafka-2:9092,", "orders")
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, k.Brokers)
	assert.True(t, k.Enabled())
	assert.NoError(t, k.Close())
}

func TestKafkaDisabledPublish(t *testing.T) {
	k := NewKafka("", "orders")
	assert.False(t, k.Enabled())
	assert.ErrorIs(t, k.Publish(context.Background(), RKOrderCreated, nil), ErrNoBrokers)
	assert.NoError(t, k.Close())
}
