package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ecomarket/internal/config"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	p := &KafkaPublisher{writer: writer, logger: zap.NewNop()}

	event := New(ProductUpdated, 42, map[string]string{"sku": "FRU-MAN-FUJI-01"})
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "product:42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, ProductUpdated, string(msg.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, ProductUpdated, decoded.Type)
	assert.Equal(t, int64(42), decoded.EntityID)

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &KafkaPublisher{writer: &fakeWriter{err: boom}, logger: zap.NewNop()}

	err := p.Publish(context.Background(), New(ContactReceived, 1, nil))
	assert.ErrorIs(t, err, boom)
}

func TestNewPublisher_DisabledIsNop(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{Topic: "t"}, zap.NewNop())

	_, ok := p.(NopPublisher)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), New(CategoryDeleted, 3, nil)))
	assert.NoError(t, p.Close())
}

func TestNew_AssignsUniqueIDs(t *testing.T) {
	a := New(CategoryCreated, 1, nil)
	b := New(CategoryCreated, 1, nil)

	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.OccurredAt.IsZero())
}
