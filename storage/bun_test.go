package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

func TestBunStoreRoundTrip(t *testing.T) {
	store := newBunStore(t)
	ctx := context.Background()

	if err := store.Write(ctx, "md/a.md", []byte("# first")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := store.Read(ctx, "md/a.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "# first" {
		t.Fatalf("unexpected content %q", data)
	}

	// Upsert replaces existing content.
	if err := store.Write(ctx, "md/a.md", []byte("# second")); err != nil {
		t.Fatalf("Write upsert: %v", err)
	}
	data, err = store.Read(ctx, "md/a.md")
	if err != nil {
		t.Fatalf("Read after upsert: %v", err)
	}
	if string(data) != "# second" {
		t.Fatalf("expected upsert to replace content, got %q", data)
	}
}

func TestBunStoreReadMissing(t *testing.T) {
	store := newBunStore(t)

	_, err := store.Read(context.Background(), "md/absent.md")
	if !errors.Is(err, interfaces.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestBunStoreList(t *testing.T) {
	store := newBunStore(t)
	ctx := context.Background()

	for _, key := range []string{"md/b.md", "md/a.md", "html/a.html"} {
		if err := store.Write(ctx, key, []byte("x")); err != nil {
			t.Fatalf("Write %s: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "md/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 || keys[0] != "md/a.md" || keys[1] != "md/b.md" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func newBunStore(t *testing.T) *Bun {
	t.Helper()
	store, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	return store
}
