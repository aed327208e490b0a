package adapter

import (
	"fmt"

	"github.com/amient/avro"

	"github.com/mindis/avrobridge/internal"
)

func recordSchema(rec SchemaRecord) (*avro.RecordSchema, error) {
	if rec == nil {
		return nil, conversionErrorf("", "nil record")
	}
	s := rec.Schema()
	if s == nil {
		return nil, conversionErrorf("", "record has no schema")
	}
	rs, ok := s.(*avro.RecordSchema)
	if !ok {
		return nil, conversionErrorf("", "schema %q is not a record schema", s.GetName())
	}
	return rs, nil
}

func fieldByName(rs *avro.RecordSchema, name string) *avro.SchemaField {
	for _, f := range rs.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func isPrimitive(schema avro.Schema) bool {
	switch schema.Type() {
	case avro.String, avro.Bytes, avro.Int, avro.Long, avro.Float, avro.Double, avro.Boolean:
		return true
	}
	return false
}

// resolveUnion picks the union branch the runtime value belongs to. A nil
// value resolves to the null branch when the union has one; a non-nil value
// resolves to the first non-null branch it converts under.
func resolveUnion(us *avro.UnionSchema, v interface{}) (avro.Schema, bool) {
	if v == nil {
		for _, t := range us.Types {
			if t.Type() == avro.Null {
				return t, true
			}
		}
		return nil, false
	}
	for _, t := range us.Types {
		if t.Type() == avro.Null {
			continue
		}
		if _, err := convertValue(t, v); err == nil {
			return t, true
		}
	}
	return nil, false
}

func convertRecord(rs *avro.RecordSchema, rec SchemaRecord) (*internal.Record, error) {
	fields := make([]string, len(rs.Fields))
	values := make([]any, len(rs.Fields))
	for i, f := range rs.Fields {
		v, err := convertValue(f.Type, rec.Get(f.Name))
		if err != nil {
			if cerr, ok := err.(*ConversionError); ok && cerr.Field == "" {
				cerr.Field = f.Name
			}
			return nil, err
		}
		fields[i] = f.Name
		values[i] = v
	}
	return internal.NewRecord(fields, values), nil
}

// convertValue produces a fully-owned copy of v appropriate to its declared
// schema type. Primitives are copied by value, bytes and fixed into fresh
// slices, nested structures recursively.
func convertValue(schema avro.Schema, v interface{}) (any, error) {
	switch schema.Type() {
	case avro.Null:
		if v != nil {
			return nil, conversionErrorf("", "non-nil value %v for null type", v)
		}
		return nil, nil

	case avro.Boolean:
		tv, ok := v.(bool)
		if !ok {
			return nil, typeMismatch("boolean", v)
		}
		return tv, nil

	case avro.String:
		tv, ok := v.(string)
		if !ok {
			return nil, typeMismatch("string", v)
		}
		return tv, nil

	case avro.Int:
		switch tv := v.(type) {
		case int32:
			return tv, nil
		case int:
			return int32(tv), nil
		}
		return nil, typeMismatch("int", v)

	case avro.Long:
		switch tv := v.(type) {
		case int64:
			return tv, nil
		case int32:
			return int64(tv), nil
		case int:
			return int64(tv), nil
		}
		return nil, typeMismatch("long", v)

	case avro.Float:
		tv, ok := v.(float32)
		if !ok {
			return nil, typeMismatch("float", v)
		}
		return tv, nil

	case avro.Double:
		switch tv := v.(type) {
		case float64:
			return tv, nil
		case float32:
			return float64(tv), nil
		}
		return nil, typeMismatch("double", v)

	case avro.Bytes, avro.Fixed:
		tv, ok := v.([]byte)
		if !ok {
			return nil, typeMismatch("bytes", v)
		}
		return append([]byte(nil), tv...), nil

	case avro.Enum:
		switch tv := v.(type) {
		case *avro.EnumValue:
			return tv.String(), nil
		case string:
			return tv, nil
		}
		return nil, typeMismatch("enum", v)

	case avro.Array:
		tv, ok := v.([]interface{})
		if !ok {
			return nil, typeMismatch("array", v)
		}
		items := schema.(*avro.ArraySchema).Items
		out := make([]any, len(tv))
		for i, e := range tv {
			oe, err := convertValue(items, e)
			if err != nil {
				return nil, err
			}
			out[i] = oe
		}
		return out, nil

	case avro.Map:
		tv, ok := v.(map[string]interface{})
		if !ok {
			return nil, typeMismatch("map", v)
		}
		elems := schema.(*avro.MapSchema).Values
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			oe, err := convertValue(elems, e)
			if err != nil {
				return nil, err
			}
			out[k] = oe
		}
		return out, nil

	case avro.Record:
		nested, ok := v.(SchemaRecord)
		if !ok {
			return nil, typeMismatch("record", v)
		}
		return convertRecord(schema.(*avro.RecordSchema), nested)

	case avro.Union:
		us := schema.(*avro.UnionSchema)
		branch, ok := resolveUnion(us, v)
		if !ok {
			if v == nil {
				return nil, conversionErrorf("", "nil value for non-nullable union")
			}
			// Unresolvable union values are captured textually rather than
			// carried by reference.
			return fmt.Sprintf("%v", v), nil
		}
		return convertValue(branch, v)

	default:
		// Unsupported schema types are captured textually rather than
		// carried by reference.
		return fmt.Sprintf("%v", v), nil
	}
}

func typeMismatch(declared string, v interface{}) *ConversionError {
	return conversionErrorf("", "value of type %T does not match declared type %s", v, declared)
}
