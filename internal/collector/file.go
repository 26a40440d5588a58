package collector

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileFetcher reads the CSV from the local filesystem.
type FileFetcher struct {
	Path string
}

func NewFileFetcher(path string) *FileFetcher { return &FileFetcher{Path: path} }

func (f *FileFetcher) Name() string { return "file " + f.Path }

func (f *FileFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return file, nil
}
