package kafka

import (
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mindis/avrobridge/internal/adapter"
)

func testSource(side RecordSide) *Source {
	return &Source{
		decoder: adapter.NewRegistryDecoder("http://localhost:8081"),
		brokers: "localhost:9092",
		topic:   "events",
		side:    side,
		logger:  zap.NewNop(),
	}
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "kafka://localhost:9092/events", testSource(SideValue).Name())
}

func TestSourcePayloadSelection(t *testing.T) {
	t.Run("empty value side is skipped", func(t *testing.T) {
		b, err := testSource(SideValue).payload(&kafka.Message{Key: []byte{0, 0, 0, 0, 1}})
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("empty key side is skipped", func(t *testing.T) {
		b, err := testSource(SideKey).payload(&kafka.Message{Value: []byte{0, 0, 0, 0, 1}})
		require.NoError(t, err)
		assert.Nil(t, b)
	})

	t.Run("bad framing surfaces as error", func(t *testing.T) {
		_, err := testSource(SideValue).payload(&kafka.Message{Value: []byte{0x7F, 0, 0, 0, 1, 0xCA}})
		assert.Error(t, err)

		_, err = testSource(SideKey).payload(&kafka.Message{Key: []byte{0x7F, 0, 0, 0, 1, 0xCA}})
		assert.Error(t, err)
	})
}
