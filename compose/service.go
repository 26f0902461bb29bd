package compose

import (
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/benjamin-wilkins/md-generator/internal/logging"
	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

// Composer assembles pages from a base layout and named block fragments. It
// owns the template set, the synthetic-template namespace consulted ahead of
// the file-backed loader, and the block-source resolver. Independent renders
// share nothing except the namespace, which is internally synchronized.
type Composer struct {
	set       *pongo2.TemplateSet
	namespace *Namespace
	blocks    interfaces.BlockSource
	logger    interfaces.Logger
}

// Config derives a composer from declarative settings, for hosts that
// configure the engine rather than constructing loaders themselves.
type Config struct {
	// TemplateDir is the root of the file-backed layout templates.
	TemplateDir string
	// Blocks resolves fragment names to content. When nil, BlockStore and
	// BlockPrefix are consulted instead.
	Blocks interfaces.BlockSource
	// BlockStore backs a StoreSource when no explicit Blocks resolver is set.
	BlockStore interfaces.ContentStore
	// BlockPrefix namespaces fragment names inside BlockStore.
	BlockPrefix string
}

// Option customises a composer.
type Option func(*Composer)

// WithLogger sets the logger used for page lifecycle entries.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a composer from an explicit template loader and block
// source. The loader is wrapped in a resolution chain that consults a fresh
// namespace first, so synthetic identifiers never reach the file-backed
// loader and ordinary lookups pass through untouched.
func New(templates pongo2.TemplateLoader, blocks interfaces.BlockSource, opts ...Option) (*Composer, error) {
	if templates == nil {
		return nil, fmt.Errorf("%w: template loader is required", ErrConfig)
	}
	if blocks == nil {
		return nil, fmt.Errorf("%w: block source is required", ErrConfig)
	}

	namespace := NewNamespace()
	c := &Composer{
		set:       pongo2.NewSet("mdgen", newChainLoader(namespace, templates)),
		namespace: namespace,
		blocks:    blocks,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FromConfig constructs a composer from declarative configuration. A block
// source that cannot be determined is a setup failure, reported here and
// never at render time.
func FromConfig(cfg Config, opts ...Option) (*Composer, error) {
	loader, err := pongo2.NewLocalFileSystemLoader(cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("%w: template dir %s: %w", ErrConfig, cfg.TemplateDir, err)
	}

	blocks := cfg.Blocks
	if blocks == nil && cfg.BlockStore != nil {
		blocks = NewStoreSource(cfg.BlockStore, cfg.BlockPrefix)
	}
	if blocks == nil {
		return nil, fmt.Errorf("%w: no block source configured", ErrConfig)
	}

	return New(loader, blocks, opts...)
}

// CreatePage starts a composition against the given base layout. The page
// receives a fresh collision-free identifier and an empty block set.
func (c *Composer) CreatePage(layoutRef string) *Page {
	page := &Page{
		composer:   c,
		identifier: newPageID(),
		layoutRef:  layoutRef,
		state:      Building,
		index:      map[string]int{},
	}
	c.logger.Debug("compose.page.created", "layout", layoutRef, "identifier", page.identifier)
	return page
}

// Namespace exposes the composer's synthetic-template namespace. Intended
// for diagnostics; pages manage their own entries.
func (c *Composer) Namespace() *Namespace {
	return c.namespace
}
