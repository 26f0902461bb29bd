package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

// Resource is the persisted row for a single blob-store entry.
type Resource struct {
	bun.BaseModel `bun:"table:resources,alias:r"`

	Key       string    `bun:"key,pk"`
	Data      []byte    `bun:"data,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Bun is a ContentStore backed by a SQL database through bun. It serves
// deployments that keep site sources in a blob table instead of a working
// tree.
type Bun struct {
	db *bun.DB
}

var _ interfaces.ContentStore = (*Bun)(nil)

// NewBun wraps an existing bun.DB. The resources table is created when absent.
func NewBun(ctx context.Context, db *bun.DB) (*Bun, error) {
	if db == nil {
		return nil, errors.New("storage: bun store requires a database")
	}
	if _, err := db.NewCreateTable().Model((*Resource)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("storage: create resources table: %w", err)
	}
	return &Bun{db: db}, nil
}

// OpenSQLite opens a SQLite database at dsn and returns a blob store bound
// to it. Use ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, dsn string) (*Bun, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite %s: %w", dsn, err)
	}
	return NewBun(ctx, bun.NewDB(sqldb, sqlitedialect.New()))
}

// Read returns the content of the resource at key.
func (s *Bun) Read(ctx context.Context, key string) ([]byte, error) {
	res := new(Resource)
	err := s.db.NewSelect().Model(res).Where("key = ?", key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("storage: read %s: %w", key, interfaces.ErrResourceNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return res.Data, nil
}

// Write upserts the resource at key.
func (s *Bun) Write(ctx context.Context, key string, data []byte) error {
	res := &Resource{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.NewInsert().
		Model(res).
		On("CONFLICT (key) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	return nil
}

// List returns the sorted keys under prefix.
func (s *Bun) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.NewSelect().
		Model((*Resource)(nil)).
		Column("key").
		Where("key LIKE ?", prefix+"%").
		Order("key").
		Scan(ctx, &keys)
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", prefix, err)
	}
	return keys, nil
}
