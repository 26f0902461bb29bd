// Package mdgen assembles the Markdown generator: an incremental
// Markdown-to-HTML compiler backed by a content store, and a template
// composer that builds pages out of a shared base layout plus compiled
// fragments.
package mdgen

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/benjamin-wilkins/md-generator/compiler"
	"github.com/benjamin-wilkins/md-generator/compose"
	"github.com/benjamin-wilkins/md-generator/internal/commands/refresh"
	"github.com/benjamin-wilkins/md-generator/internal/logging"
	"github.com/benjamin-wilkins/md-generator/internal/logging/gologger"
	"github.com/benjamin-wilkins/md-generator/internal/markdown"
	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
	"github.com/benjamin-wilkins/md-generator/storage"
)

// Page is re-exported so callers composing output do not need to import the
// compose package directly.
type Page = compose.Page

// Result reports the outcome of a batch compile.
type Result = compiler.Result

// Module is the assembled generator. Construct it with New; the zero value
// is not usable.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	store    interfaces.ContentStore
	compiler *compiler.Service
	composer *compose.Composer
	refresh  *refresh.Handler
}

// Option overrides a dependency the facade would otherwise build itself.
type Option func(*options)

type options struct {
	provider interfaces.LoggerProvider
	store    interfaces.ContentStore
	parser   interfaces.MarkdownParser
	blocks   interfaces.BlockSource
}

// WithLoggerProvider replaces the go-logger backend.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) { o.provider = provider }
}

// WithContentStore replaces the filesystem store, e.g. with storage.NewBun
// or an in-memory store in tests.
func WithContentStore(store interfaces.ContentStore) Option {
	return func(o *options) { o.store = store }
}

// WithMarkdownParser replaces the goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(o *options) { o.parser = parser }
}

// WithBlockSource replaces the default source that serves page fragments
// out of the compiled artifact tree.
func WithBlockSource(blocks interfaces.BlockSource) Option {
	return func(o *options) { o.blocks = blocks }
}

// New validates cfg, builds the content store, compiler and composer, and
// returns the wired module.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mdgen: invalid config: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	provider := o.provider
	if provider == nil && cfg.Logging.Enabled {
		p, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, fmt.Errorf("mdgen: %w", err)
		}
		provider = p
	}

	store := o.store
	if store == nil {
		fs, err := storage.NewFilesystem(cfg.ContentRoot)
		if err != nil {
			return nil, fmt.Errorf("mdgen: content root: %w", err)
		}
		store = fs
	}

	parser := o.parser
	if parser == nil {
		parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{
			Extensions: cfg.Compiler.Extensions,
			HardWraps:  cfg.Compiler.HardWraps,
			SafeMode:   cfg.Compiler.SafeMode,
		})
	}

	svc, err := compiler.NewService(compiler.Config{
		Store:  store,
		Parser: parser,
		Mapping: compiler.Mapping{
			SourceRoot: ensureTrailingSlash(cfg.Compiler.SourceRoot),
			DestRoot:   ensureTrailingSlash(cfg.Compiler.DestRoot),
			SourceExt:  cfg.Compiler.SourceExt,
			DestExt:    cfg.Compiler.DestExt,
		},
		Workers: cfg.Compiler.Workers,
		Logger:  logging.CompilerLogger(provider),
	})
	if err != nil {
		return nil, fmt.Errorf("mdgen: compiler: %w", err)
	}

	blocks := o.blocks
	if blocks == nil {
		blocks = compose.NewStoreSource(store, ensureTrailingSlash(cfg.Compiler.DestRoot))
	}

	composer, err := compose.FromConfig(compose.Config{
		TemplateDir: templateDir(cfg),
		Blocks:      blocks,
	}, compose.WithLogger(logging.ComposeLogger(provider)))
	if err != nil {
		return nil, fmt.Errorf("mdgen: composer: %w", err)
	}

	m := &Module{
		cfg:      cfg,
		provider: provider,
		store:    store,
		compiler: svc,
		composer: composer,
	}
	m.refresh = refresh.NewHandler(svc, logging.CompilerLogger(provider))
	return m, nil
}

// Compiler exposes the Markdown build service.
func (m *Module) Compiler() *compiler.Service { return m.compiler }

// Composer exposes the template composition service.
func (m *Module) Composer() *compose.Composer { return m.composer }

// Store exposes the content store backing both services.
func (m *Module) Store() interfaces.ContentStore { return m.store }

// Logger returns the named module logger, or a no-op logger when logging is
// disabled.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, name)
}

// Refresh recompiles every stale Markdown source under directory, or the
// whole source tree when directory is empty. It runs through the command
// handler so the same validation applies to programmatic and CLI callers.
func (m *Module) Refresh(ctx context.Context, directory string) error {
	return m.refresh.Execute(ctx, refresh.Command{Directory: directory})
}

// CreatePage starts composing a page on the named base layout.
func (m *Module) CreatePage(layoutRef string) *Page {
	return m.composer.CreatePage(layoutRef)
}

func ensureTrailingSlash(root string) string {
	if root == "" || strings.HasSuffix(root, "/") {
		return root
	}
	return root + "/"
}

func templateDir(cfg Config) string {
	if filepath.IsAbs(cfg.Templates.Dir) {
		return cfg.Templates.Dir
	}
	return filepath.Join(cfg.ContentRoot, cfg.Templates.Dir)
}
