package internal

import (
	"encoding/json"
	"reflect"
)

// Record is a fully-owned set of field names and their values, produced by
// converting an externally-managed avro record. All values are copies; a
// Record holds no reference to the source record or its backing buffer, so
// it may be retained, serialized and moved between workers freely.
// Field order is critical for some serializers, so we keep it in a separate
// slice rather than a map.
type Record struct {
	fields []string
	values []any
}

func NewRecord(fields []string, values []any) *Record {
	return &Record{
		fields: fields,
		values: values,
	}
}

func (r *Record) Len() int {
	return len(r.fields)
}

func (r *Record) Fields() []string {
	return r.fields
}

func (r *Record) Values() []any {
	return r.values
}

// Value returns the value of the named field and whether the field exists.
func (r *Record) Value(name string) (any, bool) {
	for i, field := range r.fields {
		if field == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map renders the record as nested maps, descending into nested records,
// arrays and maps.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for i, field := range r.fields {
		m[field] = mapValue(r.values[i])
	}
	return m
}

func mapValue(v any) any {
	switch tv := v.(type) {
	case *Record:
		return tv.Map()
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = mapValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = mapValue(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports value equality of two records: same field names in the same
// order with deeply equal values. Two independent conversions of the same
// source record are Equal without sharing any memory.
func (r *Record) Equal(other *Record) bool {
	if other == nil {
		return r == nil
	}
	if len(r.fields) != len(other.fields) {
		return false
	}
	for i, field := range r.fields {
		if field != other.fields[i] {
			return false
		}
	}
	return reflect.DeepEqual(r.values, other.values)
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}
