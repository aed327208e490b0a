package internal

// FieldValue is one entry of a selective field extraction. Absent entries
// (Present == false) cover a field missing from the schema, a null/unset
// value, or a field type extraction does not reach into.
type FieldValue struct {
	Name    string
	Value   any
	Present bool
}

// ExtractedFields is the result of extracting a sequence of field names
// from a record. It is aligned with the request: entry i corresponds to the
// i-th requested name, duplicates included, regardless of schema order.
type ExtractedFields []FieldValue

func (fs ExtractedFields) Values() []any {
	values := make([]any, len(fs))
	for i, f := range fs {
		values[i] = f.Value
	}
	return values
}

// Record reassembles the extraction into a Record keyed by the requested
// names. Absent entries carry a nil value.
func (fs ExtractedFields) Record() *Record {
	fields := make([]string, len(fs))
	values := make([]any, len(fs))
	for i, f := range fs {
		fields[i] = f.Name
		values[i] = f.Value
	}
	return NewRecord(fields, values)
}
