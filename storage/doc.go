// Package storage provides ContentStore implementations: a filesystem store
// with atomic writes, a SQLite-backed blob store built on bun, and an
// in-memory store used by tests and examples.
package storage
