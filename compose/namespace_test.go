package compose

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNamespaceStoreResolveRelease(t *testing.T) {
	ns := NewNamespace()

	if err := ns.Store("@page:abc", "{% extends \"base.html\" %}"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	source, err := ns.Resolve("@page:abc")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if source != "{% extends \"base.html\" %}" {
		t.Fatalf("unexpected source %q", source)
	}

	ns.Release("@page:abc")
	if _, err := ns.Resolve("@page:abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after release, got %v", err)
	}
}

func TestNamespaceStoreConflict(t *testing.T) {
	ns := NewNamespace()

	if err := ns.Store("@page:abc", "one"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := ns.Store("@page:abc", "two"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// The original entry survives the rejected store.
	source, err := ns.Resolve("@page:abc")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if source != "one" {
		t.Fatalf("conflicting store overwrote entry: %q", source)
	}
}

func TestNamespaceReleaseIdempotent(t *testing.T) {
	ns := NewNamespace()

	ns.Release("@page:never-stored")

	if err := ns.Store("@page:abc", "x"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	ns.Release("@page:abc")
	ns.Release("@page:abc")

	// The identifier is reusable once released.
	if err := ns.Store("@page:abc", "y"); err != nil {
		t.Fatalf("Store after release: %v", err)
	}
}

func TestNamespaceConcurrentAccess(t *testing.T) {
	ns := NewNamespace()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("@page:%04d", i)
			if err := ns.Store(id, "source"); err != nil {
				t.Errorf("Store %s: %v", id, err)
				return
			}
			if _, err := ns.Resolve(id); err != nil {
				t.Errorf("Resolve %s: %v", id, err)
			}
			ns.Release(id)
			if _, err := ns.Resolve(id); !errors.Is(err, ErrNotFound) {
				t.Errorf("Resolve %s after release: %v", id, err)
			}
		}(i)
	}
	wg.Wait()
}

func TestPageIdentifiersUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 125; j++ {
				id := newPageID()
				mu.Lock()
				if _, dup := seen[id]; dup {
					t.Errorf("duplicate identifier %s", id)
				}
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for id := range seen {
		if len(id) != len(Prefix)+32 {
			t.Fatalf("unexpected identifier shape %q", id)
		}
	}
}
