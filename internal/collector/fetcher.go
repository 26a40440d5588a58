package collector

import (
	"context"
	"io"
)

// Fetcher retrieves the raw historical price CSV.
type Fetcher interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
	Name() string
}
