package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindis/avrobridge/internal"
	"github.com/mindis/avrobridge/internal/adapter"
	"github.com/mindis/avrobridge/internal/catalog"
)

// Mode selects how each source record is adapted: a whole-record deep
// conversion, or extraction of a configured list of fields.
type Mode string

const (
	ModeConvert Mode = "convert"
	ModeExtract Mode = "extract"
)

// Source yields deserialized avro records one at a time, ending with
// io.EOF.
type Source interface {
	Name() string
	Next(ctx context.Context) (adapter.SchemaRecord, error)
	Close(ctx context.Context) error
}

// Preserver receives converted records on their way out of the bridge.
type Preserver interface {
	Preserve(ctx context.Context, r *internal.Record) error
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

type Option func(*Bridge)

func WithLogger(logger *zap.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

func WithSource(source Source) Option {
	return func(b *Bridge) {
		b.source = source
	}
}

func WithAdapter(a *adapter.Adapter) Option {
	return func(b *Bridge) {
		b.adapter = a
	}
}

func WithPreserver(p Preserver) Option {
	return func(b *Bridge) {
		b.preserver = p
	}
}

// WithRepository sets where the run's catalog.json is written. Without one
// the catalog is only logged.
func WithRepository(r internal.Repository) Option {
	return func(b *Bridge) {
		b.repository = r
	}
}

func WithMode(mode Mode) Option {
	return func(b *Bridge) {
		b.mode = mode
	}
}

// WithFields sets the field names extracted per record in extract mode, in
// request order.
func WithFields(fields []string) Option {
	return func(b *Bridge) {
		b.fields = fields
	}
}

// Bridge drives the adapter over a stream of source records and hands the
// transfer-safe results to a preserver. Records are independent; the loop
// is sequential but the adapter itself carries no per-run state.
type Bridge struct {
	logger     *zap.Logger
	source     Source
	adapter    *adapter.Adapter
	preserver  Preserver
	repository internal.Repository
	mode       Mode
	fields     []string

	stats statsTracker
}

func New(opts ...Option) (*Bridge, error) {
	b := &Bridge{
		logger: zap.NewNop(),
		mode:   ModeConvert,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.source == nil {
		return nil, fmt.Errorf("bridge requires a source")
	}
	if b.preserver == nil {
		return nil, fmt.Errorf("bridge requires a preserver")
	}
	if b.adapter == nil {
		b.adapter = adapter.New()
	}

	switch b.mode {
	case ModeConvert:
	case ModeExtract:
		if len(b.fields) == 0 {
			return nil, fmt.Errorf("extract mode requires at least one field")
		}
	default:
		return nil, fmt.Errorf("unknown bridge mode: %q", b.mode)
	}

	return b, nil
}

// Run consumes the source to exhaustion and writes the run catalog. It
// never leaves a partially-converted record in the output: a record either
// fully converts and is preserved, or the run fails.
func (b *Bridge) Run(ctx context.Context, runID uuid.UUID) error {
	log := &catalog.Catalog{
		RunID:     runID.String(),
		StartTime: time.Now().UTC(),
		Source:    b.source.Name(),
		Mode:      string(b.mode),
	}

	b.logger.Info("bridge run starting",
		zap.String("run_id", log.RunID),
		zap.String("source", log.Source),
		zap.String("mode", log.Mode))

	runErr := b.run(ctx, log)

	log.EndTime = time.Now().UTC()
	log.Completed = runErr == nil

	if err := b.writeCatalog(ctx, log); err != nil {
		if runErr == nil {
			return err
		}
		b.logger.Error("writing catalog", zap.Error(err))
	}

	b.logger.Info("bridge run finished",
		zap.String("run_id", log.RunID),
		zap.Int("num_source_records", log.NumSourceRecords),
		zap.Int("num_records_converted", log.NumRecordsConverted),
		zap.Bool("completed", log.Completed),
		zap.Error(runErr))

	return runErr
}

func (b *Bridge) run(ctx context.Context, log *catalog.Catalog) error {
	for {
		rec, err := b.source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		log.NumSourceRecords++
		b.stats.recordSeen()

		out, absent, err := b.adapt(rec)
		if err != nil {
			return err
		}
		log.NumAbsentFields += absent

		if err := b.preserver.Preserve(ctx, out); err != nil {
			return err
		}
		log.NumRecordsConverted++
		b.stats.recordConverted(int64(absent))
	}

	return b.preserver.Flush(ctx)
}

func (b *Bridge) adapt(rec adapter.SchemaRecord) (*internal.Record, int, error) {
	if b.mode == ModeExtract {
		fs, err := b.adapter.ExtractFields(rec, b.fields)
		if err != nil {
			return nil, 0, err
		}
		absent := 0
		for _, f := range fs {
			if !f.Present {
				absent++
			}
		}
		return fs.Record(), absent, nil
	}

	out, err := b.adapter.ConvertWholeRecord(rec)
	return out, 0, err
}

func (b *Bridge) writeCatalog(ctx context.Context, log *catalog.Catalog) error {
	if b.repository == nil {
		return nil
	}
	bs, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return err
	}
	return b.repository.Write(ctx, "catalog.json", bytes.NewReader(bs))
}

func (b *Bridge) Close(ctx context.Context) error {
	if err := b.preserver.Close(ctx); err != nil {
		b.logger.Error("closing preserver", zap.Error(err))
	}
	return b.source.Close(ctx)
}
