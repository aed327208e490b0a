package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amient/avro"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mindis/avrobridge/internal/catalog"
	"github.com/mindis/avrobridge/internal/file"
)

const userSchemaJSON = `{
	"type": "record",
	"name": "User",
	"namespace": "bridge.test",
	"fields": [
		{"name": "name", "type": "string"},
		{"name": "age", "type": "int"}
	]
}`

func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	schemaPath := filepath.Join(dir, "user.avsc")
	require.NoError(t, os.WriteFile(schemaPath, []byte(userSchemaJSON), 0644))

	schema, err := avro.ParseSchema(userSchemaJSON)
	require.NoError(t, err)
	writer := avro.NewGenericDatumWriter().SetSchema(schema)

	var frames bytes.Buffer
	for i, name := range []string{"alice", "bob"} {
		record := avro.NewGenericRecord(schema)
		record.Set("name", name)
		record.Set("age", int32(30+i))

		var datum bytes.Buffer
		require.NoError(t, writer.Write(record, avro.NewBinaryEncoder(&datum)))
		require.NoError(t, file.WriteFrame(&frames, datum.Bytes()))
	}

	dataPath := filepath.Join(dir, "users.bin")
	require.NoError(t, os.WriteFile(dataPath, frames.Bytes(), 0644))

	return schemaPath, dataPath
}

func TestInitializeBridgeFileToParquet(t *testing.T) {
	ctx := context.Background()
	schemaPath, dataPath := writeFixtures(t)
	outDir := t.TempDir()

	cfg := &Config{
		Bridge: Bridge{
			Name: "test-1",
			Mode: "convert",
			Source: Source{
				Type: "file",
				File: File{Schema: schemaPath, Data: dataPath},
			},
			Preserver: Preserver{
				Type:                "parquet",
				BatchSizeNumRecords: 10,
				Parquet:             Parquet{AvroSchema: schemaPath},
			},
			Repository: Repository{
				Type:  "local",
				Local: Local{Path: outDir},
			},
		},
	}

	rid := uuid.New()
	b, err := InitializeBridge(cfg, zap.NewNop(), rid)
	require.NoError(t, err)

	require.NoError(t, b.Run(ctx, rid))
	require.NoError(t, b.Close(ctx))

	runDir := filepath.Join(outDir, rid.String())
	entries, err := os.ReadDir(runDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var sawParquet bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".parquet") {
			sawParquet = true
		}
	}
	assert.True(t, sawParquet)

	data, err := os.ReadFile(filepath.Join(runDir, "catalog.json"))
	require.NoError(t, err)

	var log catalog.Catalog
	require.NoError(t, json.Unmarshal(data, &log))
	assert.True(t, log.Completed)
	assert.Equal(t, 2, log.NumSourceRecords)
	assert.Equal(t, 2, log.NumRecordsConverted)
	assert.Equal(t, dataPath, log.Source)
}

func TestInitializeBridgeErrors(t *testing.T) {
	t.Run("unknown source type", func(t *testing.T) {
		cfg := &Config{Bridge: Bridge{Source: Source{Type: "ftp"}}}
		_, err := InitializeBridge(cfg, zap.NewNop(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("parquet without schema", func(t *testing.T) {
		schemaPath, dataPath := writeFixtures(t)
		cfg := &Config{
			Bridge: Bridge{
				Source:    Source{Type: "file", File: File{Schema: schemaPath, Data: dataPath}},
				Preserver: Preserver{Type: "parquet"},
				Repository: Repository{
					Type:  "local",
					Local: Local{Path: t.TempDir()},
				},
			},
		}
		_, err := InitializeBridge(cfg, zap.NewNop(), uuid.New())
		assert.Error(t, err)
	})

	t.Run("unknown repository type", func(t *testing.T) {
		schemaPath, dataPath := writeFixtures(t)
		cfg := &Config{
			Bridge: Bridge{
				Source:     Source{Type: "file", File: File{Schema: schemaPath, Data: dataPath}},
				Repository: Repository{Type: "gcs"},
			},
		}
		_, err := InitializeBridge(cfg, zap.NewNop(), uuid.New())
		assert.Error(t, err)
	})
}
