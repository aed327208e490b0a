// Package adapter converts avro records, as produced by the library's
// deserialization path, into fully-owned transfer-safe representations. The
// generated record types keep references into decoder state and buffers, so
// they cannot cross worker boundaries as-is; everything this package emits
// is an independent copy.
package adapter

import (
	"github.com/amient/avro"
	"go.uber.org/zap"

	"github.com/mindis/avrobridge/internal"
)

type Option func(*Adapter)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// WithDeepExtraction makes ExtractFields descend into non-primitive fields
// (records, arrays, maps) instead of reporting them absent.
func WithDeepExtraction(deep bool) Option {
	return func(a *Adapter) {
		a.deep = deep
	}
}

// Adapter is stateless and safe for concurrent use; every call allocates
// its result independently of any other call.
type Adapter struct {
	logger *zap.Logger
	deep   bool
}

func New(opts ...Option) *Adapter {
	a := &Adapter{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ConvertWholeRecord deep-copies every field declared by the record's
// schema into an owned Record. It never returns a partial result: a value
// that cannot be coerced to its declared type fails the whole conversion
// with a *ConversionError.
//
// This walks and copies the entire record; ExtractFields is cheaper when
// only a few fields are needed.
func (a *Adapter) ConvertWholeRecord(rec SchemaRecord) (*internal.Record, error) {
	rs, err := recordSchema(rec)
	if err != nil {
		return nil, err
	}

	out, err := convertRecord(rs, rec)
	if err != nil {
		return nil, err
	}

	if err := internal.Transferable(out); err != nil {
		return nil, conversionErrorf("", "%v", err)
	}

	a.logger.Debug("converted record",
		zap.String("schema", rs.GetName()),
		zap.Int("fields", out.Len()))

	return out, nil
}

// ExtractFields resolves the requested field names, in request order, into
// an ExtractedFields of the same length. A name missing from the schema, a
// null/unset value, or (unless deep extraction is enabled) a non-primitive
// field yields an absent entry rather than an error; only an uncoercible
// value fails the call.
func (a *Adapter) ExtractFields(rec SchemaRecord, names []string) (internal.ExtractedFields, error) {
	rs, err := recordSchema(rec)
	if err != nil {
		return nil, err
	}

	out := make(internal.ExtractedFields, len(names))
	for i, name := range names {
		out[i] = internal.FieldValue{Name: name}

		f := fieldByName(rs, name)
		if f == nil {
			continue
		}

		v := rec.Get(name)
		if v == nil {
			continue
		}

		schema := f.Type
		if us, ok := schema.(*avro.UnionSchema); ok {
			branch, resolved := resolveUnion(us, v)
			if !resolved {
				continue
			}
			schema = branch
		}
		if schema.Type() == avro.Null {
			continue
		}

		if !isPrimitive(schema) && !a.deep {
			continue
		}

		ov, err := convertValue(schema, v)
		if err != nil {
			if cerr, ok := err.(*ConversionError); ok && cerr.Field == "" {
				cerr.Field = name
			}
			return nil, err
		}
		if ov == nil {
			continue
		}
		if err := internal.Transferable(ov); err != nil {
			return nil, conversionErrorf(name, "%v", err)
		}

		out[i] = internal.FieldValue{Name: name, Value: ov, Present: true}
	}

	return out, nil
}
