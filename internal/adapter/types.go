package adapter

import (
	"github.com/amient/avro"
)

// SchemaRecord is the capability the adapter requires from a deserialized
// record: its schema and field access by name. *avro.GenericRecord, the
// type produced by the library's generic deserialization path, satisfies
// it. The adapter depends only on this interface so specific record types
// can be bridged the same way.
type SchemaRecord interface {
	Schema() avro.Schema
	Get(name string) interface{}
}

var _ SchemaRecord = (*avro.GenericRecord)(nil)

// Binary is an avro payload paired with the schema it was written with.
type Binary struct {
	Schema avro.Schema
	Data   []byte
}

// KVBinary is the legacy keyed container: a key payload and a value
// payload, each schema-paired. Sources that consume the old key/value
// wrapper produce these.
type KVBinary struct {
	Key   Binary
	Value Binary
}

// UnwrapKey selects the key side of a keyed container. The legacy wrapper
// carries the actual record as the key, with a null value side.
func UnwrapKey(kv *KVBinary) *Binary {
	return &kv.Key
}
