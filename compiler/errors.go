package compiler

import "errors"

var (
	// ErrUnreadable marks a source resource that could not be read. Fatal for
	// that resource, non-fatal for a batch.
	ErrUnreadable = errors.New("compiler: source unreadable")

	// ErrUnwritable marks an artifact that could not be written. Fatal for
	// that resource, non-fatal for a batch.
	ErrUnwritable = errors.New("compiler: artifact unwritable")

	// ErrStoreRequired is returned by NewService when no content store is
	// configured.
	ErrStoreRequired = errors.New("compiler: content store is required")
)
