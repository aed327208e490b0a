package parquet

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindis/avrobridge/internal"
)

type memoryRepository struct {
	objects map[string][]byte
}

func (m *memoryRepository) Write(ctx context.Context, path string, reader io.Reader) error {
	bs, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[path] = bs
	return nil
}

func (m *memoryRepository) Flush() error { return nil }

func userRecord(name string, age int32) *internal.Record {
	return internal.NewRecord([]string{"name", "age"}, []any{name, age})
}

var userSchema = Schema{
	{Name: "name", Type: "BYTE_ARRAY", ConvertedType: "UTF8"},
	{Name: "age", Type: "INT32"},
}

func TestPreserverValidation(t *testing.T) {
	_, err := New()
	assert.Error(t, err)

	_, err = New(WithSchema(userSchema))
	assert.Error(t, err)

	_, err = New(WithSchema(userSchema), WithRepository(&memoryRepository{}))
	assert.NoError(t, err)
}

func TestPreserverBatching(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{}

	p, err := New(
		WithSchema(userSchema),
		WithRepository(repo),
		WithBatchSizeNumRecords(2),
	)
	require.NoError(t, err)

	require.NoError(t, p.Preserve(ctx, userRecord("alice", 30)))
	assert.Len(t, repo.objects, 0)

	// second record fills the batch
	require.NoError(t, p.Preserve(ctx, userRecord("bob", 31)))
	assert.Len(t, repo.objects, 1)

	require.NoError(t, p.Preserve(ctx, userRecord("carol", 32)))
	require.NoError(t, p.Close(ctx))
	assert.Len(t, repo.objects, 2)

	for key, bs := range repo.objects {
		assert.Regexp(t, `^\d{5}-[0-9a-f-]+\.parquet$`, key)
		assert.NotEmpty(t, bs)
	}
}

func TestPreserverFlushEmpty(t *testing.T) {
	repo := &memoryRepository{}
	p, err := New(WithSchema(userSchema), WithRepository(repo))
	require.NoError(t, err)

	require.NoError(t, p.Flush(context.Background()))
	assert.Len(t, repo.objects, 0)
}
