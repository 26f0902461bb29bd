package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

// Memory is an in-process ContentStore. Safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	resources map[string][]byte
}

var _ interfaces.ContentStore = (*Memory)(nil)

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{resources: map[string][]byte{}}
}

// Read returns a copy of the resource at key.
func (s *Memory) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.resources[key]
	if !ok {
		return nil, fmt.Errorf("storage: read %s: %w", key, interfaces.ErrResourceNotFound)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write replaces the resource at key.
func (s *Memory) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.resources[key] = stored
	return nil
}

// List returns the sorted keys under prefix.
func (s *Memory) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key := range s.resources {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
