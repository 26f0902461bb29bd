package compose

import (
	"fmt"
	"strings"
)

// Block is a named fragment bound to a page, with the fragment's reserved
// directive line already stripped.
type Block struct {
	Name string
	Body string
}

// buildTemplateSource synthesizes the child template for a page: an
// inheritance declaration for the layout followed by one delimited block per
// binding, bodies verbatim. Iteration order does not affect rendered output
// since each block is independently delimited, but bindings are emitted in
// insertion order so the synthesized source is deterministic.
func buildTemplateSource(layoutRef string, blocks []Block) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{%% extends %q %%}\n", layoutRef)
	for _, block := range blocks {
		fmt.Fprintf(&b, "{%% block %s %%}\n%s{%% endblock %%}\n", block.Name, block.Body)
	}
	return b.String()
}
