package parquet

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amient/avro"

	"github.com/mindis/avrobridge/internal"
)

type Field struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"`
	ConvertedType  string `yaml:"converted_type,omitempty"`
	RepetitionType string `yaml:"repetition_type,omitempty"`
}

type Schema []Field

// FromAvro derives a flat parquet schema from an avro record schema.
// Primitive columns map to their parquet counterparts; nested structures
// are preserved as JSON text columns.
func FromAvro(schema avro.Schema) (Schema, error) {
	rs, ok := schema.(*avro.RecordSchema)
	if !ok {
		return nil, fmt.Errorf("parquet schema requires a record schema, got %q", schema.GetName())
	}

	out := make(Schema, 0, len(rs.Fields))
	for _, f := range rs.Fields {
		out = append(out, fromAvroField(f.Name, f.Type))
	}
	return out, nil
}

func fromAvroField(name string, s avro.Schema) Field {
	f := Field{Name: name}

	if us, ok := s.(*avro.UnionSchema); ok {
		f.RepetitionType = "OPTIONAL"
		s = unionColumnType(us)
	}

	switch s.Type() {
	case avro.String, avro.Enum:
		f.Type = "BYTE_ARRAY"
		f.ConvertedType = "UTF8"
	case avro.Int:
		f.Type = "INT32"
	case avro.Long:
		f.Type = "INT64"
	case avro.Float:
		f.Type = "FLOAT"
	case avro.Double:
		f.Type = "DOUBLE"
	case avro.Boolean:
		f.Type = "BOOLEAN"
	case avro.Bytes, avro.Fixed:
		f.Type = "BYTE_ARRAY"
	default:
		// records, arrays, maps and unresolved unions land as JSON text
		f.Type = "BYTE_ARRAY"
		f.ConvertedType = "UTF8"
	}

	return f
}

// unionColumnType picks the column type of a nullable union. A union with a
// single non-null branch maps to that branch; anything wider is textual.
func unionColumnType(us *avro.UnionSchema) avro.Schema {
	var branch avro.Schema
	for _, t := range us.Types {
		if t.Type() == avro.Null {
			continue
		}
		if branch != nil {
			return us
		}
		branch = t
	}
	if branch == nil {
		return us
	}
	return branch
}

func (s Schema) ToGoParquetSchema() []string {
	schema := make([]string, len(s))
	for i, field := range s {
		parts := []string{
			fmt.Sprintf("name=%s", field.Name),
			fmt.Sprintf("type=%s", field.Type),
		}
		if field.ConvertedType != "" {
			parts = append(parts, fmt.Sprintf("convertedtype=%s", field.ConvertedType))
		}
		if field.RepetitionType != "" {
			parts = append(parts, fmt.Sprintf("repetitiontype=%s", field.RepetitionType))
		}
		schema[i] = strings.Join(parts, ", ")
	}

	return schema
}

// RecordToParquetRow maps a converted record onto a row matching this
// schema. The record's field order must match the schema's column order,
// which holds for any record converted from the schema the columns were
// derived from.
func (s Schema) RecordToParquetRow(r *internal.Record) ([]any, error) {
	if len(s) != r.Len() {
		return nil, fmt.Errorf(
			"schema and record fields mismatch: schema has %d fields, record has %d fields",
			len(s),
			r.Len(),
		)
	}

	row := make([]any, len(s))
	values := r.Values()

	for i := range s {
		v, err := columnValue(values[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", s[i].Name, err)
		}
		row[i] = v
	}

	return row, nil
}

func columnValue(v any) (any, error) {
	switch tv := v.(type) {
	case nil:
		return nil, nil
	case bool, string, int32, int64, float32, float64:
		return tv, nil
	case []byte:
		return string(tv), nil
	case *internal.Record, []any, map[string]any:
		bs, err := json.Marshal(mapped(tv))
		if err != nil {
			return nil, err
		}
		return string(bs), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func mapped(v any) any {
	if r, ok := v.(*internal.Record); ok {
		return r.Map()
	}
	return v
}
