package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

// Filesystem is a ContentStore rooted at a directory. Keys are slash-separated
// paths relative to the root. Writes go through an atomic rename so readers
// never observe a partially written resource.
type Filesystem struct {
	root string
}

var (
	_ interfaces.ContentStore = (*Filesystem)(nil)
	_ interfaces.PrefixReader = (*Filesystem)(nil)
)

// NewFilesystem constructs a filesystem store rooted at root. The root itself
// must exist; subdirectories are created on demand by Write.
func NewFilesystem(root string) (*Filesystem, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root %s is not a directory", root)
	}
	return &Filesystem{root: root}, nil
}

// Read returns the full content of the resource at key.
func (s *Filesystem) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.abs(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", key, interfaces.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// ReadPrefix returns at most max leading bytes of the resource at key without
// loading the remainder.
func (s *Filesystem) ReadPrefix(ctx context.Context, key string, max int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.abs(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", key, interfaces.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	defer f.Close()

	buf := make([]byte, max)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return buf[:n], nil
}

// Write replaces the resource at key, creating parent directories as needed.
func (s *Filesystem) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.abs(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for %s: %w", key, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

// List walks the tree under prefix and returns the keys of every regular file.
func (s *Filesystem) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := s.abs(prefix)
	info, err := os.Stat(base)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: list %s: %w", prefix, err)
	}
	if !info.IsDir() {
		return []string{strings.TrimPrefix(filepath.ToSlash(prefix), "/")}, nil
	}

	var keys []string
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", prefix, err)
	}
	return keys, nil
}

func (s *Filesystem) abs(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(key, "/")))
}
