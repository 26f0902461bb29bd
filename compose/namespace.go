package compose

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Prefix marks synthetic template identifiers. Ordinary template lookups
// never carry it, so file-backed names cannot collide with namespace entries.
const Prefix = "@page:"

// Namespace is a mutable, uniquely-keyed store of synthetic template sources.
// It is the only shared mutable state in the composition engine and is safe
// for concurrent Store/Resolve/Release from independent pages. Each Composer
// owns its own instance; it is never reached through package-level state.
type Namespace struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewNamespace constructs an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{entries: map[string]string{}}
}

// Store registers source under identifier. It never overwrites: an existing
// entry could be mid-resolution in a concurrent render, so a collision is
// ErrConflict.
func (n *Namespace) Store(identifier, source string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.entries[identifier]; exists {
		return fmt.Errorf("store %s: %w", identifier, ErrConflict)
	}
	n.entries[identifier] = source
	return nil
}

// Resolve returns the source registered under identifier, or ErrNotFound.
func (n *Namespace) Resolve(identifier string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	source, ok := n.entries[identifier]
	if !ok {
		return "", fmt.Errorf("resolve %s: %w", identifier, ErrNotFound)
	}
	return source, nil
}

// Release removes the entry for identifier. Releasing an identifier that is
// absent is a no-op, so cleanup on an error path never itself fails.
func (n *Namespace) Release(identifier string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, identifier)
}

// chainLoader adapts a Namespace into a pongo2.TemplateLoader consulted
// before a file-backed loader. Identifiers carrying the reserved prefix are
// served from the namespace; everything else is delegated, so ordinary
// template resolution is unaffected.
type chainLoader struct {
	namespace *Namespace
	next      pongo2.TemplateLoader
}

var _ pongo2.TemplateLoader = (*chainLoader)(nil)

func newChainLoader(namespace *Namespace, next pongo2.TemplateLoader) *chainLoader {
	return &chainLoader{namespace: namespace, next: next}
}

// Abs returns synthetic identifiers verbatim. For ordinary names the
// delegate decides; a synthetic base (an {% extends %} inside a synthetic
// template) is hidden from it since it carries no directory information.
func (l *chainLoader) Abs(base, name string) string {
	if strings.HasPrefix(name, Prefix) {
		return name
	}
	if strings.HasPrefix(base, Prefix) {
		base = ""
	}
	return l.next.Abs(base, name)
}

// Get serves prefixed identifiers from the namespace and delegates the rest.
func (l *chainLoader) Get(path string) (io.Reader, error) {
	if strings.HasPrefix(path, Prefix) {
		source, err := l.namespace.Resolve(path)
		if err != nil {
			return nil, err
		}
		return strings.NewReader(source), nil
	}
	return l.next.Get(path)
}
