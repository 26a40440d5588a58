package collector

import (
	"context"
	"io"
	"strings"
)

// StaticFetcher returns a fixed payload or error, for development and testing.
type StaticFetcher struct {
	Body string
	Err  error
}

func (s *StaticFetcher) Name() string { return "static" }

func (s *StaticFetcher) Fetch(_ context.Context) (io.ReadCloser, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return io.NopCloser(strings.NewReader(s.Body)), nil
}
