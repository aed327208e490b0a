package preserver

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/mindis/avrobridge/internal"
)

// Stdout writes each converted record as one JSON line. Useful for piping
// bridge output into other tooling and for local debugging.
type Stdout struct {
	enc *json.Encoder
}

func NewStdout() *Stdout {
	return NewJSONLines(os.Stdout)
}

func NewJSONLines(w io.Writer) *Stdout {
	return &Stdout{enc: json.NewEncoder(w)}
}

func (s *Stdout) Preserve(ctx context.Context, r *internal.Record) error {
	return s.enc.Encode(r)
}

func (s *Stdout) Flush(ctx context.Context) error {
	return nil
}

func (s *Stdout) Close(ctx context.Context) error {
	return nil
}
