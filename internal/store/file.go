package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps every value in one JSON object on disk. The whole document is
// rewritten on each Set.
type FileKV struct {
	mu       sync.Mutex
	filePath string
	data     map[string]string
}

// NewFileKV loads filePath, starting empty if it does not exist.
func NewFileKV(filePath string) (*FileKV, error) {
	data, err := loadDocument(filePath)
	if err != nil {
		return nil, err
	}
	return &FileKV{filePath: filePath, data: data}, nil
}

func loadDocument(filePath string) (map[string]string, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}
	return data, nil
}

func (f *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.data[key]
	f.data[key] = value
	if err := f.save(); err != nil {
		if had {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *FileKV) save() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.filePath, raw, 0644)
}

func (f *FileKV) Close() error { return nil }
