package adapter

import (
	"encoding/binary"
	"fmt"

	"github.com/amient/avro"
	"go.uber.org/zap"
)

// Decode materializes the generic record carried by a schema-paired
// payload.
func Decode(b *Binary) (*avro.GenericRecord, error) {
	if b.Schema == nil {
		return nil, conversionErrorf("", "payload has no schema")
	}
	record := avro.NewGenericRecord(b.Schema)
	reader := avro.NewDatumReader(b.Schema)
	if err := reader.Read(record, avro.NewBinaryDecoder(b.Data)); err != nil {
		return nil, fmt.Errorf("decoding avro payload: %w", err)
	}
	return record, nil
}

// RegistryDecoder resolves confluent wire-format payloads, a zero magic
// byte followed by a big-endian uint32 schema id and the datum, against a
// schema registry.
type RegistryDecoder struct {
	client *avro.SchemaRegistryClient
	logger *zap.Logger
}

type RegistryOption func(*RegistryDecoder)

func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(d *RegistryDecoder) {
		d.logger = logger
	}
}

func NewRegistryDecoder(url string, opts ...RegistryOption) *RegistryDecoder {
	d := &RegistryDecoder{
		client: &avro.SchemaRegistryClient{Url: url},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *RegistryDecoder) Decode(payload []byte) (*Binary, error) {
	if len(payload) < 5 {
		return nil, fmt.Errorf("payload too short for registry framing: %d bytes", len(payload))
	}
	if payload[0] != 0 {
		return nil, fmt.Errorf("avro binary header incorrect: magic byte %#x", payload[0])
	}

	schemaID := binary.BigEndian.Uint32(payload[1:])
	schema := d.client.Get(schemaID)
	if schema == nil {
		return nil, fmt.Errorf("schema id %d not found in registry", schemaID)
	}

	d.logger.Debug("resolved schema",
		zap.Uint32("schema_id", schemaID),
		zap.String("schema", schema.GetName()))

	return &Binary{
		Schema: schema,
		Data:   payload[5:],
	}, nil
}
