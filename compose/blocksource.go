package compose

import (
	"context"
	"fmt"

	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

// StoreSource resolves block fragments from a ContentStore, prefixing every
// fragment name with a fixed namespace (conventionally the compiled artifact
// root, so pages splice in compiler output).
type StoreSource struct {
	store  interfaces.ContentStore
	prefix string
}

var _ interfaces.BlockSource = (*StoreSource)(nil)

// NewStoreSource binds a block source to a content store. prefix may be
// empty when fragment names are already full keys.
func NewStoreSource(store interfaces.ContentStore, prefix string) *StoreSource {
	return &StoreSource{store: store, prefix: prefix}
}

// Get reads the fragment resource. Store-backed fragments are always
// reloadable: the underlying resource may change between renders.
func (s *StoreSource) Get(ctx context.Context, name string) ([]byte, bool, error) {
	content, err := s.store.Read(ctx, s.prefix+name)
	if err != nil {
		return nil, false, fmt.Errorf("block source %s: %w", name, err)
	}
	return content, true, nil
}
