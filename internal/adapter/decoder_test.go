package adapter

import (
	"bytes"
	"testing"

	"github.com/amient/avro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeRecord(t *testing.T, schema avro.Schema, record *avro.GenericRecord) []byte {
	t.Helper()
	writer := avro.NewGenericDatumWriter().SetSchema(schema)
	buffer := new(bytes.Buffer)
	if err := writer.Write(record, avro.NewBinaryEncoder(buffer)); err != nil {
		t.Fatalf("encoding fixture record: %v", err)
	}
	return buffer.Bytes()
}

func TestDecode(t *testing.T) {
	schema := mustSchema(t, userSchemaJSON)

	t.Run("round trip", func(t *testing.T) {
		data := encodeRecord(t, schema, newUserRecord(t))

		decoded, err := Decode(&Binary{Schema: schema, Data: data})
		require.NoError(t, err)
		assert.Equal(t, "alice", decoded.Get("name"))
		assert.Equal(t, int32(30), decoded.Get("age"))
	})

	t.Run("converted record survives source buffer reuse", func(t *testing.T) {
		data := encodeRecord(t, schema, newUserRecord(t))

		decoded, err := Decode(&Binary{Schema: schema, Data: data})
		require.NoError(t, err)

		out, err := New().ConvertWholeRecord(decoded)
		require.NoError(t, err)

		for i := range data {
			data[i] = 0xFF
		}

		name, _ := out.Value("name")
		assert.Equal(t, "alice", name)
		tags, _ := out.Value("tags")
		assert.Equal(t, []any{"a", "b"}, tags)
	})

	t.Run("missing schema", func(t *testing.T) {
		_, err := Decode(&Binary{Data: []byte{0x01}})
		var cerr *ConversionError
		require.ErrorAs(t, err, &cerr)
	})
}

func TestRegistryDecoderFraming(t *testing.T) {
	d := NewRegistryDecoder("http://localhost:8081")

	t.Run("rejects short payloads", func(t *testing.T) {
		_, err := d.Decode([]byte{0, 0, 0})
		assert.Error(t, err)
	})

	t.Run("rejects unknown magic byte", func(t *testing.T) {
		_, err := d.Decode([]byte{1, 0, 0, 0, 1, 0xCA, 0xFE})
		assert.Error(t, err)
	})
}

func TestUnwrapKey(t *testing.T) {
	schema := mustSchema(t, userSchemaJSON)
	kv := &KVBinary{
		Key:   Binary{Schema: schema, Data: []byte{0x01}},
		Value: Binary{},
	}

	b := UnwrapKey(kv)
	require.NotNil(t, b)
	assert.Equal(t, schema, b.Schema)
	assert.Equal(t, []byte{0x01}, b.Data)
}
