package compose

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"
)

// State tracks the page lifecycle. A page starts Building, passes through
// Rendered or Failed inside Render, and ends Released once its namespace
// identifier has been reclaimed. No transition leaves Released.
type State uint8

const (
	Building State = iota
	Rendered
	Failed
	Released
)

func (s State) String() string {
	switch s {
	case Building:
		return "building"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Page is an in-progress composition: a layout reference, an ordered set of
// named blocks, and an ephemeral unique identifier. Each page owns its own
// block mapping; nothing is shared between page instances. A page is
// single-use and not safe for concurrent use by multiple goroutines.
type Page struct {
	composer   *Composer
	identifier string
	layoutRef  string
	state      State
	blocks     []Block
	index      map[string]int
}

// Identifier returns the page's synthetic template identifier, including the
// reserved prefix.
func (p *Page) Identifier() string {
	return p.identifier
}

// State returns the page's lifecycle state.
func (p *Page) State() State {
	return p.state
}

// AddBlock reads the fragment resource, discards its first line (the
// reserved directive line), and binds the remainder under name. Rebinding a
// name overwrites its fragment; last write wins. Valid only while Building.
func (p *Page) AddBlock(ctx context.Context, name, fragmentRef string) error {
	if p.state != Building {
		return fmt.Errorf("add block %q in state %s: %w", name, p.state, ErrInvalidState)
	}

	content, _, err := p.composer.blocks.Get(ctx, fragmentRef)
	if err != nil {
		return fmt.Errorf("compose: read fragment %s: %w", fragmentRef, err)
	}

	// The first line of a fragment resource is reserved for a directive and
	// never appears in the rendered block body.
	_, body, _ := strings.Cut(string(content), "\n")

	if i, ok := p.index[name]; ok {
		p.blocks[i].Body = body
		return nil
	}
	p.index[name] = len(p.blocks)
	p.blocks = append(p.blocks, Block{Name: name, Body: body})
	return nil
}

// Render synthesizes the child template, stages it into the namespace under
// the page's identifier, renders it with bindings as the variable context,
// and reclaims the identifier. The namespace entry never outlives this call,
// whether rendering succeeds or fails. A page can be rendered once; further
// calls return ErrInvalidState.
func (p *Page) Render(ctx context.Context, bindings map[string]any) (string, error) {
	if p.state != Building {
		return "", fmt.Errorf("render in state %s: %w", p.state, ErrInvalidState)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	source := buildTemplateSource(p.layoutRef, p.blocks)

	if err := p.composer.namespace.Store(p.identifier, source); err != nil {
		// The entry under this identifier belongs to someone else; releasing
		// it here would sabotage their render.
		p.state = Released
		return "", err
	}
	defer func() {
		p.composer.namespace.Release(p.identifier)
		p.state = Released
	}()

	tpl, err := p.composer.set.FromFile(p.identifier)
	if err != nil {
		p.state = Failed
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}

	vars := pongo2.Context(bindings)
	if vars == nil {
		vars = pongo2.Context{}
	}

	out, err := tpl.Execute(vars)
	if err != nil {
		p.state = Failed
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}

	p.state = Rendered
	return out, nil
}

// newPageID allocates a globally-unique synthetic identifier. Identifiers
// are random 128-bit values so concurrent pages cannot collide; a sequential
// counter would not survive concurrent allocation.
func newPageID() string {
	id := uuid.New()
	return Prefix + hex.EncodeToString(id[:])
}
