package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var _ Store = (*File)(nil)

// File persists each partition as <dir>/<partition>.json. It is the
// default backend, the local-disk equivalent of the browser storage the
// stores were originally written against.
type File struct {
	mu  sync.Mutex
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(partition string) string {
	return filepath.Join(f.dir, partition+".json")
}

func (f *File) Get(_ context.Context, partition string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(partition))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read partition %s: %w", partition, err)
	}
	return data, nil
}

func (f *File) Set(_ context.Context, partition string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Write-then-rename so a crash mid-write leaves the old blob intact.
	tmp := f.path(partition) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write partition %s: %w", partition, err)
	}
	if err := os.Rename(tmp, f.path(partition)); err != nil {
		return fmt.Errorf("failed to replace partition %s: %w", partition, err)
	}
	return nil
}

func (f *File) Delete(_ context.Context, partition string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(partition)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete partition %s: %w", partition, err)
	}
	return nil
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return fmt.Errorf("failed to list storage dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to clear storage: %w", err)
		}
	}
	return nil
}
