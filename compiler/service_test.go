package compiler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/benjamin-wilkins/md-generator/pkg/interfaces"
	"github.com/benjamin-wilkins/md-generator/storage"
)

// countingParser records every render invocation so tests can prove work was
// skipped, and can be told to fail for specific inputs.
type countingParser struct {
	mu      sync.Mutex
	inputs  []string
	failOn  string
	percall func()
}

func (p *countingParser) Parse(markdown []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	in := string(markdown)
	if p.failOn != "" && strings.Contains(in, p.failOn) {
		return nil, errors.New("parser: induced failure")
	}
	p.inputs = append(p.inputs, in)
	return []byte("<p>" + in + "</p>"), nil
}

func (p *countingParser) ParseWithOptions(markdown []byte, _ interfaces.ParseOptions) ([]byte, error) {
	return p.Parse(markdown)
}

func (p *countingParser) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inputs)
}

func newTestService(t *testing.T, store interfaces.ContentStore, parser interfaces.MarkdownParser) *Service {
	t.Helper()
	svc, err := NewService(Config{Store: store, Parser: parser})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCompileWritesDigestPrefixedArtifact(t *testing.T) {
	store := storage.NewMemory()
	parser := &countingParser{}
	svc := newTestService(t, store, parser)
	ctx := context.Background()

	if err := store.Write(ctx, "md/a.md", []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := svc.Compile(ctx, "md/a.md"); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	artifact, err := store.Read(ctx, "html/a.html")
	if err != nil {
		t.Fatalf("Read artifact: %v", err)
	}
	line, rest, found := strings.Cut(string(artifact), "\n")
	if !found {
		t.Fatalf("artifact missing digest line: %q", artifact)
	}
	if len(line) != digestHexLen {
		t.Fatalf("digest line has length %d: %q", len(line), line)
	}
	if rest != "<p>hello</p>" {
		t.Fatalf("unexpected markup %q", rest)
	}

	digest, err := NewDigestCache(store).DigestOf(ctx, "md/a.md")
	if err != nil {
		t.Fatalf("DigestOf: %v", err)
	}
	if line != digest.String() {
		t.Fatalf("artifact digest %s does not match source digest %s", line, digest)
	}
}

func TestCompileIdempotent(t *testing.T) {
	store := storage.NewMemory()
	parser := &countingParser{}
	svc := newTestService(t, store, parser)
	ctx := context.Background()

	if err := store.Write(ctx, "md/a.md", []byte("once")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := svc.Compile(ctx, "md/a.md"); err != nil {
		t.Fatalf("first Compile: %v", err)
	}
	if err := svc.Compile(ctx, "md/a.md"); err != nil {
		t.Fatalf("second Compile: %v", err)
	}
	if parser.calls() != 1 {
		t.Fatalf("expected exactly one render, got %d", parser.calls())
	}

	// A source change forces a rebuild.
	if err := store.Write(ctx, "md/a.md", []byte("twice")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := svc.Compile(ctx, "md/a.md"); err != nil {
		t.Fatalf("third Compile: %v", err)
	}
	if parser.calls() != 2 {
		t.Fatalf("expected rebuild after change, got %d renders", parser.calls())
	}
}

func TestCompileEscapesBeforeRendering(t *testing.T) {
	store := storage.NewMemory()
	parser := &countingParser{}
	svc := newTestService(t, store, parser)
	ctx := context.Background()

	if err := store.Write(ctx, "md/a.md", []byte("{{7*7}} & <b>")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := svc.Compile(ctx, "md/a.md"); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if len(parser.inputs) != 1 {
		t.Fatalf("expected one render, got %d", len(parser.inputs))
	}
	in := parser.inputs[0]
	for _, raw := range []string{"{{", "}}", "<", ">"} {
		if strings.Contains(in, raw) {
			t.Fatalf("renderer received raw sequence %q in %q", raw, in)
		}
	}
}

func TestCompileUnreadableSource(t *testing.T) {
	store := storage.NewMemory()
	svc := newTestService(t, store, &countingParser{})

	err := svc.Compile(context.Background(), "md/absent.md")
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestCompileAllCaseInsensitiveOrder(t *testing.T) {
	store := storage.NewMemory()
	parser := &countingParser{}
	svc := newTestService(t, store, parser)
	ctx := context.Background()

	if err := store.Write(ctx, "md/B.md", []byte("from B")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Write(ctx, "md/a.md", []byte("from a")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	result, err := svc.CompileAll(ctx)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(result.Compiled) != 2 {
		t.Fatalf("expected 2 compiled, got %+v", result)
	}
	if result.Compiled[0] != "md/a.md" || result.Compiled[1] != "md/B.md" {
		t.Fatalf("expected a.md before B.md, got %v", result.Compiled)
	}
	if parser.inputs[0] != "from a" {
		t.Fatalf("expected a.md rendered first, got %v", parser.inputs)
	}
}

func TestCompileAllIsolatesFailures(t *testing.T) {
	store := storage.NewMemory()
	parser := &countingParser{failOn: "poison"}
	svc := newTestService(t, store, parser)
	ctx := context.Background()

	for key, content := range map[string]string{
		"md/a.md": "fine",
		"md/b.md": "poison pill",
		"md/c.md": "also fine",
	} {
		if err := store.Write(ctx, key, []byte(content)); err != nil {
			t.Fatalf("Write %s: %v", key, err)
		}
	}

	result, err := svc.CompileAll(ctx)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(result.Failures) != 1 || result.Failures[0].SourceRef != "md/b.md" {
		t.Fatalf("expected md/b.md to fail, got %+v", result.Failures)
	}
	if len(result.Compiled) != 2 {
		t.Fatalf("expected healthy resources compiled, got %+v", result)
	}

	if _, err := store.Read(ctx, "html/a.html"); err != nil {
		t.Fatalf("expected artifact for md/a.md: %v", err)
	}
	if _, err := store.Read(ctx, "html/c.html"); err != nil {
		t.Fatalf("expected artifact for md/c.md: %v", err)
	}
}

func TestCompileAllSecondRunSkips(t *testing.T) {
	store := storage.NewMemory()
	parser := &countingParser{}
	svc := newTestService(t, store, parser)
	ctx := context.Background()

	for _, key := range []string{"md/a.md", "md/b.md"} {
		if err := store.Write(ctx, key, []byte("content of "+key)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if _, err := svc.CompileAll(ctx); err != nil {
		t.Fatalf("first CompileAll: %v", err)
	}
	renders := parser.calls()

	result, err := svc.CompileAll(ctx)
	if err != nil {
		t.Fatalf("second CompileAll: %v", err)
	}
	if parser.calls() != renders {
		t.Fatalf("second run performed renders: %d -> %d", renders, parser.calls())
	}
	if len(result.Skipped) != 2 || len(result.Compiled) != 0 {
		t.Fatalf("expected all skipped on second run, got %+v", result)
	}
}

func TestPlanReportsWithoutWriting(t *testing.T) {
	store := storage.NewMemory()
	parser := &countingParser{}
	svc := newTestService(t, store, parser)
	ctx := context.Background()

	if err := store.Write(ctx, "md/a.md", []byte("built")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Write(ctx, "md/b.md", []byte("pending")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := svc.Compile(ctx, "md/a.md"); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	renders := parser.calls()

	result, err := svc.Plan(ctx, "")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(result.Compiled) != 1 || result.Compiled[0] != "md/b.md" {
		t.Fatalf("expected md/b.md stale, got %+v", result)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "md/a.md" {
		t.Fatalf("expected md/a.md fresh, got %+v", result)
	}

	if parser.calls() != renders {
		t.Fatalf("plan performed renders: %d -> %d", renders, parser.calls())
	}
	if _, err := store.Read(ctx, "html/b.html"); !errors.Is(err, interfaces.ErrResourceNotFound) {
		t.Fatalf("plan wrote an artifact: %v", err)
	}
}

func TestCompileAllParallelWorkers(t *testing.T) {
	store := storage.NewMemory()
	parser := &countingParser{}
	svc, err := NewService(Config{Store: store, Parser: parser, Workers: 4})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()

	keys := []string{"md/a.md", "md/b.md", "md/c.md", "md/d.md", "md/e.md"}
	for _, key := range keys {
		if err := store.Write(ctx, key, []byte("content of "+key)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	result, err := svc.CompileAll(ctx)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(result.Compiled) != len(keys) {
		t.Fatalf("expected %d compiled, got %+v", len(keys), result)
	}

	// Every artifact passes its own freshness check once written.
	cache := NewDigestCache(store)
	for _, key := range keys {
		digest, err := cache.DigestOf(ctx, key)
		if err != nil {
			t.Fatalf("DigestOf %s: %v", key, err)
		}
		if !cache.IsFresh(ctx, DefaultMapping().ArtifactRef(key), digest) {
			t.Fatalf("artifact for %s is not fresh", key)
		}
	}
}
