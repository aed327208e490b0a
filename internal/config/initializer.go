package config

import (
	"fmt"
	"os"
	"path"

	"github.com/amient/avro"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindis/avrobridge/internal"
	"github.com/mindis/avrobridge/internal/adapter"
	"github.com/mindis/avrobridge/internal/bridge"
	"github.com/mindis/avrobridge/internal/file"
	"github.com/mindis/avrobridge/internal/kafka"
	"github.com/mindis/avrobridge/internal/local"
	"github.com/mindis/avrobridge/internal/parquet"
	"github.com/mindis/avrobridge/internal/preserver"
	"github.com/mindis/avrobridge/internal/s3"
)

// InitializeBridge wires a runnable bridge from the config: source,
// adapter, preserver and repository. The run id prefixes repository output
// so every run lands under its own key space.
func InitializeBridge(cfg *Config, logger *zap.Logger, runID uuid.UUID) (*bridge.Bridge, error) {
	source, err := initializeSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	repository, err := initializeRepository(cfg, logger, runID)
	if err != nil {
		return nil, err
	}

	p, err := initializePreserver(cfg, logger, repository)
	if err != nil {
		return nil, err
	}

	a := adapter.New(
		adapter.WithLogger(logger),
		adapter.WithDeepExtraction(cfg.Bridge.DeepExtraction),
	)

	mode := bridge.ModeConvert
	if cfg.Bridge.Mode != "" {
		mode = bridge.Mode(cfg.Bridge.Mode)
	}

	return bridge.New(
		bridge.WithLogger(logger),
		bridge.WithSource(source),
		bridge.WithAdapter(a),
		bridge.WithPreserver(p),
		bridge.WithRepository(repository),
		bridge.WithMode(mode),
		bridge.WithFields(cfg.Bridge.Fields),
	)
}

func initializeSource(cfg *Config, logger *zap.Logger) (bridge.Source, error) {
	switch cfg.Bridge.Source.Type {
	case "kafka":
		kc := cfg.Bridge.Source.Kafka
		decoder := adapter.NewRegistryDecoder(
			kc.SchemaRegistry,
			adapter.WithRegistryLogger(logger),
		)

		opts := []kafka.Option{kafka.WithLogger(logger)}
		if kc.RecordSide != "" {
			opts = append(opts, kafka.WithRecordSide(kafka.RecordSide(kc.RecordSide)))
		}
		return kafka.NewSource(kc.Brokers, kc.Topic, kc.Group, decoder, opts...)

	case "file":
		fc := cfg.Bridge.Source.File
		return file.NewSource(fc.Schema, fc.Data, file.WithLogger(logger))

	default:
		return nil, fmt.Errorf("unknown source type: %q", cfg.Bridge.Source.Type)
	}
}

func initializeRepository(cfg *Config, logger *zap.Logger, runID uuid.UUID) (internal.Repository, error) {
	switch cfg.Bridge.Repository.Type {
	case "":
		// stdout runs do not need a repository
		return nil, nil

	case "local":
		return local.New(
			cfg.Bridge.Repository.Local.Path,
			local.WithPrefix(runID.String()),
			local.WithLogger(logger),
		), nil

	case "s3":
		sc := cfg.Bridge.Repository.S3
		return s3.New(
			s3.WithLogger(logger),
			s3.WithRegion(sc.Region),
			s3.WithBucket(sc.Bucket),
			s3.WithEndpoint(sc.Endpoint),
			s3.WithForcePathStyle(sc.ForcePathStyle),
			s3.WithPrefix(path.Join(sc.Prefix, runID.String())),
		), nil

	default:
		return nil, fmt.Errorf("unknown repository type: %q", cfg.Bridge.Repository.Type)
	}
}

func initializePreserver(cfg *Config, logger *zap.Logger, repository internal.Repository) (bridge.Preserver, error) {
	switch cfg.Bridge.Preserver.Type {
	case "", "stdout":
		return preserver.NewStdout(), nil

	case "parquet":
		schema, err := parquetSchema(cfg.Bridge.Preserver.Parquet)
		if err != nil {
			return nil, err
		}

		opts := []parquet.Option{
			parquet.WithLogger(logger),
			parquet.WithSchema(schema),
			parquet.WithRepository(repository),
		}
		if cfg.Bridge.Preserver.BatchSizeNumRecords > 0 {
			opts = append(opts, parquet.WithBatchSizeNumRecords(cfg.Bridge.Preserver.BatchSizeNumRecords))
		}
		return parquet.New(opts...)

	default:
		return nil, fmt.Errorf("unknown preserver type: %q", cfg.Bridge.Preserver.Type)
	}
}

// SchemaToConfigFields renders a derived parquet schema in the form the
// config file accepts, for printing generated configuration.
func SchemaToConfigFields(s parquet.Schema) []ParquetField {
	fields := make([]ParquetField, len(s))
	for i, f := range s {
		fields[i] = ParquetField{
			Name:           f.Name,
			Type:           f.Type,
			ConvertedType:  f.ConvertedType,
			RepetitionType: f.RepetitionType,
		}
	}
	return fields
}

func parquetSchema(pc Parquet) (parquet.Schema, error) {
	if len(pc.Schema) > 0 {
		schema := make(parquet.Schema, len(pc.Schema))
		for i, f := range pc.Schema {
			schema[i] = parquet.Field{
				Name:           f.Name,
				Type:           f.Type,
				ConvertedType:  f.ConvertedType,
				RepetitionType: f.RepetitionType,
			}
		}
		return schema, nil
	}

	if pc.AvroSchema != "" {
		raw, err := os.ReadFile(pc.AvroSchema)
		if err != nil {
			return nil, fmt.Errorf("reading avro schema file: %w", err)
		}
		schema, err := avro.ParseSchema(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing avro schema %q: %w", pc.AvroSchema, err)
		}
		return parquet.FromAvro(schema)
	}

	return nil, fmt.Errorf("parquet preserver requires either a schema or an avro_schema file")
}
