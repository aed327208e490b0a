package parquet

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/xitongsys/parquet-go/writer"
	"go.uber.org/zap"

	"github.com/mindis/avrobridge/internal"
)

type Option func(*Preserver)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Preserver) {
		p.logger = logger
	}
}

func WithSchema(schema Schema) Option {
	return func(p *Preserver) {
		p.schema = schema
	}
}

func WithRepository(repository internal.Repository) Option {
	return func(p *Preserver) {
		p.repository = repository
	}
}

func WithBatchSizeNumRecords(n int) Option {
	return func(p *Preserver) {
		p.batchSize = n
	}
}

// Preserver buffers converted records and writes them out as parquet
// objects through a repository, one object per batch.
type Preserver struct {
	logger     *zap.Logger
	schema     Schema
	repository internal.Repository
	batchSize  int

	mu   sync.Mutex
	rows [][]any
	part int
}

func New(opts ...Option) (*Preserver, error) {
	p := &Preserver{
		logger:    zap.NewNop(),
		batchSize: 1000,
	}
	for _, opt := range opts {
		opt(p)
	}

	if len(p.schema) == 0 {
		return nil, fmt.Errorf("parquet preserver requires a schema")
	}
	if p.repository == nil {
		return nil, fmt.Errorf("parquet preserver requires a repository")
	}

	return p, nil
}

func (p *Preserver) Preserve(ctx context.Context, r *internal.Record) error {
	row, err := p.schema.RecordToParquetRow(r)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.rows = append(p.rows, row)
	full := len(p.rows) >= p.batchSize
	p.mu.Unlock()

	if full {
		return p.Flush(ctx)
	}
	return nil
}

// Flush writes all buffered rows as one parquet object. A flush with no
// buffered rows is a no-op.
func (p *Preserver) Flush(ctx context.Context) error {
	p.mu.Lock()
	rows := p.rows
	p.rows = nil
	p.part++
	part := p.part
	p.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}

	var buf bytes.Buffer
	pw, err := writer.NewCSVWriterFromWriter(p.schema.ToGoParquetSchema(), &buf, 1)
	if err != nil {
		return fmt.Errorf("creating parquet writer: %w", err)
	}

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("writing parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}

	key := fmt.Sprintf("%05d-%s.parquet", part, uuid.New())
	p.logger.Info("flushing parquet batch",
		zap.String("key", key),
		zap.Int("num_records", len(rows)),
		zap.Int("num_bytes", buf.Len()))

	return p.repository.Write(ctx, key, &buf)
}

func (p *Preserver) Close(ctx context.Context) error {
	return p.Flush(ctx)
}
