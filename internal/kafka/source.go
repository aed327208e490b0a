package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"github.com/mindis/avrobridge/internal/adapter"
)

// RecordSide selects which side of a message carries the avro record.
type RecordSide string

const (
	// SideValue reads the record from the message value.
	SideValue RecordSide = "value"
	// SideKey reads the record from the message key, the layout the legacy
	// key/value container produces.
	SideKey RecordSide = "key"
)

type Option func(*Source)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

func WithRecordSide(side RecordSide) Option {
	return func(s *Source) {
		s.side = side
	}
}

func WithPollTimeout(timeout time.Duration) Option {
	return func(s *Source) {
		s.pollTimeout = timeout
	}
}

// Source consumes registry-framed avro messages from a kafka topic and
// yields deserialized records one at a time.
type Source struct {
	consumer *kafka.Consumer
	decoder  *adapter.RegistryDecoder

	brokers     string
	topic       string
	side        RecordSide
	pollTimeout time.Duration
	logger      *zap.Logger
}

func NewSource(brokers, topic, group string, decoder *adapter.RegistryDecoder, opts ...Option) (*Source, error) {
	s := &Source{
		decoder:     decoder,
		brokers:     brokers,
		topic:       topic,
		side:        SideValue,
		pollTimeout: time.Second,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"group.id":          group,
		"client.id":         "avrobridge",

		"auto.offset.reset":  "earliest",
		"enable.auto.commit": true,

		// Fail fast against unreachable brokers instead of the default 30s.
		"request.timeout.ms": "5000",
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka consumer: %w", err)
	}

	if err := consumer.Subscribe(topic, nil); err != nil {
		consumer.Close()
		return nil, fmt.Errorf("subscribing to %q: %w", topic, err)
	}

	s.consumer = consumer
	s.logger.Info("kafka source subscribed",
		zap.String("brokers", brokers),
		zap.String("topic", topic),
		zap.String("group", group),
		zap.String("record_side", string(s.side)))

	return s, nil
}

func (s *Source) Name() string {
	return fmt.Sprintf("kafka://%s/%s", s.brokers, s.topic)
}

// Next blocks until a message is available, the context is cancelled, or
// the consumer fails. Messages with an empty record side are skipped.
func (s *Source) Next(ctx context.Context) (adapter.SchemaRecord, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msg, err := s.consumer.ReadMessage(s.pollTimeout)
		if err != nil {
			if kerr, ok := err.(kafka.Error); ok && kerr.Code() == kafka.ErrTimedOut {
				continue
			}
			return nil, fmt.Errorf("reading from %q: %w", s.topic, err)
		}

		b, err := s.payload(msg)
		if err != nil {
			return nil, err
		}
		if b == nil {
			s.logger.Debug("skipping message without record payload",
				zap.Int32("partition", msg.TopicPartition.Partition),
				zap.Int64("offset", int64(msg.TopicPartition.Offset)))
			continue
		}

		return adapter.Decode(b)
	}
}

func (s *Source) payload(msg *kafka.Message) (*adapter.Binary, error) {
	if s.side == SideKey {
		if len(msg.Key) == 0 {
			return nil, nil
		}
		kb, err := s.decoder.Decode(msg.Key)
		if err != nil {
			return nil, err
		}
		kv := &adapter.KVBinary{Key: *kb}
		if len(msg.Value) > 0 {
			if vb, err := s.decoder.Decode(msg.Value); err == nil {
				kv.Value = *vb
			}
		}
		return adapter.UnwrapKey(kv), nil
	}

	if len(msg.Value) == 0 {
		return nil, nil
	}
	return s.decoder.Decode(msg.Value)
}

func (s *Source) Close(ctx context.Context) error {
	return s.consumer.Close()
}
