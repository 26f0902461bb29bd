package compose

import "errors"

var (
	// ErrConflict reports an attempt to register a template identifier that
	// is already taken. Under correct identifier allocation this never
	// happens; observing it means a programming invariant was violated and
	// the render must fail.
	ErrConflict = errors.New("compose: template identifier already registered")

	// ErrNotFound reports a namespace miss. It is the normal signal for the
	// resolution chain to fall through to the file-backed loader and is
	// never surfaced to callers of Render.
	ErrNotFound = errors.New("compose: template identifier not registered")

	// ErrInvalidState reports a Page operation outside the Building state,
	// such as rendering twice or adding blocks after render.
	ErrInvalidState = errors.New("compose: page is not building")

	// ErrConfig reports a composer that cannot be constructed from the
	// supplied configuration. Raised eagerly at setup, never at render time.
	ErrConfig = errors.New("compose: invalid configuration")

	// ErrRender wraps a templating-engine failure. The namespace entry is
	// always released before this is returned.
	ErrRender = errors.New("compose: render failed")
)
