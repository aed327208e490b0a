package internal

import (
	"context"
	"io"
)

// Repository is the boundary converted records are preserved through: a
// keyed blob store (local directory, object storage) addressed by path.
type Repository interface {
	Write(ctx context.Context, path string, reader io.Reader) error
	Flush() error
}
