package file

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/amient/avro"
	"go.uber.org/zap"

	"github.com/mindis/avrobridge/internal/adapter"
)

type Option func(*Source)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// Source reads avro datums from a local file of length-prefixed frames (a
// big-endian uint32 length followed by the binary datum), all written with
// the schema in the given schema file. It exists for offline runs and
// fixtures; live traffic comes in through the kafka source.
type Source struct {
	schema avro.Schema
	file   *os.File
	reader *bufio.Reader
	path   string
	logger *zap.Logger
}

func NewSource(schemaPath, dataPath string, opts ...Option) (*Source, error) {
	raw, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}
	schema, err := avro.ParseSchema(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing schema %q: %w", schemaPath, err)
	}

	f, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}

	s := &Source{
		schema: schema,
		file:   f,
		reader: bufio.NewReader(f),
		path:   dataPath,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Debug("file source opened",
		zap.String("path", dataPath),
		zap.String("schema", schema.GetName()))

	return s, nil
}

func (s *Source) Name() string {
	return s.path
}

// Next returns the next record in the file, or io.EOF once exhausted.
func (s *Source) Next(ctx context.Context) (adapter.SchemaRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var length uint32
	if err := binary.Read(s.reader, binary.BigEndian, &length); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading frame length: %w", err)
	}

	frame := make([]byte, length)
	if _, err := io.ReadFull(s.reader, frame); err != nil {
		return nil, fmt.Errorf("reading %d byte frame: %w", length, err)
	}

	return adapter.Decode(&adapter.Binary{Schema: s.schema, Data: frame})
}

func (s *Source) Close(ctx context.Context) error {
	return s.file.Close()
}

// WriteFrame appends one length-prefixed datum to w in the framing Next
// reads.
func WriteFrame(w io.Writer, datum []byte) error {
	if err := binary.Write(w, binary.BigEndian, uint32(len(datum))); err != nil {
		return err
	}
	_, err := w.Write(datum)
	return err
}
