package internal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	t.Run("value lookup", func(t *testing.T) {
		r := NewRecord([]string{"name", "age"}, []any{"alice", int32(30)})

		v, ok := r.Value("age")
		assert.True(t, ok)
		assert.Equal(t, int32(30), v)

		_, ok = r.Value("missing")
		assert.False(t, ok)
	})

	t.Run("map descends into nested records", func(t *testing.T) {
		nested := NewRecord([]string{"city"}, []any{"London"})
		r := NewRecord(
			[]string{"name", "location", "tags"},
			[]any{"alice", nested, []any{"a", "b"}},
		)

		assert.Equal(t, map[string]any{
			"name":     "alice",
			"location": map[string]any{"city": "London"},
			"tags":     []any{"a", "b"},
		}, r.Map())
	})

	t.Run("equality is by value", func(t *testing.T) {
		a := NewRecord([]string{"name"}, []any{"alice"})
		b := NewRecord([]string{"name"}, []any{"alice"})
		c := NewRecord([]string{"name"}, []any{"bob"})
		d := NewRecord([]string{"other"}, []any{"alice"})

		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
		assert.False(t, a.Equal(d))
		assert.False(t, a.Equal(nil))
	})

	t.Run("marshals as an object", func(t *testing.T) {
		r := NewRecord([]string{"name", "age"}, []any{"alice", int32(30)})

		bs, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "alice", "age": 30}`, string(bs))
	})
}

func TestExtractedFields(t *testing.T) {
	fs := ExtractedFields{
		{Name: "age", Value: int32(30), Present: true},
		{Name: "missing"},
		{Name: "name", Value: "alice", Present: true},
	}

	assert.Equal(t, []any{int32(30), nil, "alice"}, fs.Values())

	r := fs.Record()
	assert.Equal(t, []string{"age", "missing", "name"}, r.Fields())
	assert.Equal(t, []any{int32(30), nil, "alice"}, r.Values())
}

func TestTransferable(t *testing.T) {
	t.Run("accepts owned value shapes", func(t *testing.T) {
		nested := NewRecord([]string{"zip"}, []any{int32(19806)})
		r := NewRecord(
			[]string{"name", "payload", "tags", "attrs", "location", "none"},
			[]any{
				"alice",
				[]byte{0x01},
				[]any{int64(1), 0.5},
				map[string]any{"k": true},
				nested,
				nil,
			},
		)
		assert.NoError(t, Transferable(r))
	})

	t.Run("rejects foreign references", func(t *testing.T) {
		type handle struct{ p *int }

		assert.Error(t, Transferable(&handle{}))
		assert.Error(t, Transferable(NewRecord([]string{"h"}, []any{&handle{}})))
		assert.Error(t, Transferable([]any{make(chan int)}))
	})
}
