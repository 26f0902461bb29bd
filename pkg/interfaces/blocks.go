package interfaces

import "context"

// BlockSource supplies the raw content for a named block fragment. The
// reloadable flag reports whether the source may change between calls, so
// callers know the fragment cannot be cached for the process lifetime.
type BlockSource interface {
	Get(ctx context.Context, name string) (content []byte, reloadable bool, err error)
}
