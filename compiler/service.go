package compiler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/benjamin-wilkins/md-generator/internal/logging"
	"github.com/benjamin-wilkins/md-generator/internal/markdown"
	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
)

// Config assembles the collaborators of a compiler service.
type Config struct {
	// Store supplies source bytes and accepts artifact writes.
	Store interfaces.ContentStore
	// Parser renders Markdown to HTML. Defaults to goldmark.
	Parser interfaces.MarkdownParser
	// Mapping is the source-to-artifact path transformation.
	Mapping Mapping
	// Workers bounds batch parallelism. Values below 2 compile sequentially.
	Workers int
	// Logger receives per-resource compile and skip entries.
	Logger interfaces.Logger
}

// Service compiles Markdown resources into digest-prefixed HTML artifacts,
// skipping any resource whose artifact already carries the digest of the
// current source.
type Service struct {
	store   interfaces.ContentStore
	parser  interfaces.MarkdownParser
	mapping Mapping
	digests *DigestCache
	logger  interfaces.Logger
	workers int
}

// Failure records a single resource that failed inside a batch.
type Failure struct {
	SourceRef string
	Err       error
}

// Result summarises a batch run.
type Result struct {
	Compiled []string
	Skipped  []string
	Failures []Failure
}

// NewService validates the configuration and builds a compiler service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, ErrStoreRequired
	}

	parser := cfg.Parser
	if parser == nil {
		parser = markdown.NewGoldmarkParser(interfaces.ParseOptions{})
	}

	mapping := cfg.Mapping
	if mapping == (Mapping{}) {
		mapping = DefaultMapping()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Service{
		store:   cfg.Store,
		parser:  parser,
		mapping: mapping,
		digests: NewDigestCache(cfg.Store),
		logger:  logger,
		workers: cfg.Workers,
	}, nil
}

// Compile converts a single Markdown source into its artifact. When the
// artifact is already fresh for the source's digest the call is a no-op and
// only a skip entry is logged.
func (s *Service) Compile(ctx context.Context, sourceRef string) error {
	_, err := s.compile(ctx, sourceRef)
	return err
}

// CompileAll lists the source namespace, orders it case-insensitively for
// reproducible build logs, and compiles every resource independently. A
// failing resource is recorded in the result and does not stop the batch.
// The operation is idempotent: a second run over unchanged sources skips
// everything.
func (s *Service) CompileAll(ctx context.Context) (Result, error) {
	return s.CompileUnder(ctx, s.mapping.SourceRoot)
}

// CompileUnder behaves like CompileAll restricted to sources under the given
// prefix inside the source namespace.
func (s *Service) CompileUnder(ctx context.Context, prefix string) (Result, error) {
	if prefix == "" || !strings.HasPrefix(prefix, s.mapping.SourceRoot) {
		prefix = s.mapping.SourceRoot
	}

	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return Result{}, fmt.Errorf("compiler: list sources: %w", err)
	}

	sources := sortSources(keys, s.mapping)

	var (
		mu     sync.Mutex
		result Result
	)
	record := func(ref string, skipped bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			result.Failures = append(result.Failures, Failure{SourceRef: ref, Err: err})
		case skipped:
			result.Skipped = append(result.Skipped, ref)
		default:
			result.Compiled = append(result.Compiled, ref)
		}
	}

	if s.workers > 1 {
		var group errgroup.Group
		group.SetLimit(s.workers)
		for _, ref := range sources {
			group.Go(func() error {
				skipped, err := s.compile(ctx, ref)
				record(ref, skipped, err)
				// Failures are isolated per resource; never abort the batch.
				return nil
			})
		}
		_ = group.Wait()
	} else {
		for _, ref := range sources {
			skipped, err := s.compile(ctx, ref)
			record(ref, skipped, err)
		}
	}

	logging.WithFields(s.logger, map[string]any{
		"compiled": len(result.Compiled),
		"skipped":  len(result.Skipped),
		"failed":   len(result.Failures),
	}).Info("compiler.batch.completed")

	return result, nil
}

// sortSources filters keys down to the source namespace and orders them
// case-insensitively, with the raw key as tiebreak, so batch runs are
// reproducible across stores.
func sortSources(keys []string, mapping Mapping) []string {
	sources := keys[:0]
	for _, key := range keys {
		if mapping.IsSource(key) {
			sources = append(sources, key)
		}
	}
	sort.Slice(sources, func(i, j int) bool {
		a, b := strings.ToLower(sources[i]), strings.ToLower(sources[j])
		if a != b {
			return a < b
		}
		return sources[i] < sources[j]
	})
	return sources
}

// Plan reports what a batch compile under prefix would do without writing
// anything: stale sources appear in Compiled, fresh ones in Skipped, and
// unreadable ones in Failures.
func (s *Service) Plan(ctx context.Context, prefix string) (Result, error) {
	if prefix == "" || !strings.HasPrefix(prefix, s.mapping.SourceRoot) {
		prefix = s.mapping.SourceRoot
	}

	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return Result{}, fmt.Errorf("compiler: list sources: %w", err)
	}

	var result Result
	for _, key := range sortSources(keys, s.mapping) {
		digest, err := s.digests.DigestOf(ctx, key)
		if err != nil {
			result.Failures = append(result.Failures, Failure{SourceRef: key, Err: err})
			continue
		}
		if s.digests.IsFresh(ctx, s.mapping.ArtifactRef(key), digest) {
			result.Skipped = append(result.Skipped, key)
			continue
		}
		result.Compiled = append(result.Compiled, key)
	}
	return result, nil
}

func (s *Service) compile(ctx context.Context, sourceRef string) (skipped bool, err error) {
	artifactRef := s.mapping.ArtifactRef(sourceRef)

	digest, err := s.digests.DigestOf(ctx, sourceRef)
	if err != nil {
		s.logger.Error("compiler.source.unreadable", "source", sourceRef, "error", err)
		return false, err
	}

	logger := logging.WithFields(s.logger, map[string]any{
		"source":   sourceRef,
		"artifact": artifactRef,
		"digest":   digest.String()[:8],
	})

	if s.digests.IsFresh(ctx, artifactRef, digest) {
		logger.Info("compiler.compile.skipped")
		return true, nil
	}

	raw, err := s.store.Read(ctx, sourceRef)
	if err != nil {
		return false, fmt.Errorf("compile %s: %w: %w", sourceRef, ErrUnreadable, err)
	}

	meta, body, err := markdown.ExtractFrontMatter(raw)
	if err != nil {
		return false, fmt.Errorf("compile %s: %w", sourceRef, err)
	}
	if meta.Title != "" {
		logger = logging.WithFields(logger, map[string]any{"title": meta.Title})
	}

	html, err := s.parser.Parse([]byte(Escape(string(body))))
	if err != nil {
		return false, fmt.Errorf("compile %s: %w", sourceRef, err)
	}

	artifact := make([]byte, 0, digestHexLen+1+len(html))
	artifact = append(artifact, digest.String()...)
	artifact = append(artifact, '\n')
	artifact = append(artifact, html...)

	if err := s.store.Write(ctx, artifactRef, artifact); err != nil {
		return false, fmt.Errorf("compile %s: %w: %w", sourceRef, ErrUnwritable, err)
	}

	logger.Info("compiler.compile.completed")
	return false, nil
}
