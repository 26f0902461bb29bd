package interfaces

import (
	"context"
	"errors"
)

// ErrResourceNotFound is returned by ContentStore implementations when the
// requested key has no resource behind it. Callers that treat a miss as a
// normal condition (the freshness check, resolver chains) match it with
// errors.Is.
var ErrResourceNotFound = errors.New("storage: resource not found")

// ContentStore is a byte-level key-value store over named resources. Keys are
// path-like strings; implementations may be backed by a filesystem, a
// database, or an in-memory map. Write must create any intermediate
// namespace (e.g. parent directories) the backend requires.
type ContentStore interface {
	// Read returns the full content of the resource at key.
	// Returns ErrResourceNotFound when the key does not exist.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the content of the resource at key, creating it if
	// necessary. Writes are atomic from the perspective of concurrent readers.
	Write(ctx context.Context, key string, data []byte) error

	// List returns the keys of every resource under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// PrefixReader is an optional ContentStore extension that serves the leading
// bytes of a resource without loading the full content. The digest cache uses
// it to inspect an artifact's first line cheaply; stores that do not
// implement it fall back to a full Read.
type PrefixReader interface {
	ReadPrefix(ctx context.Context, key string, max int) ([]byte, error)
}
