package compiler

import "strings"

// escaper rewrites every sequence that a downstream markup or templating
// engine could reinterpret. Replacements happen in a single left-to-right
// scan: emitted entities are never rescanned, so the ampersands they
// introduce are not escaped a second time. Multi-character sequences are
// listed first so they win over their single-character constituents at the
// same position.
var escaper = strings.NewReplacer(
	"{{", "&#123;&#123;",
	"}}", "&#125;&#125;",
	"{%", "&#123;&#37;",
	"%}", "&#37;&#125;",
	"<", "&lt;",
	">", "&gt;",
	"&", "&amp;",
)

// Escape neutralises template-engine control sequences and markup-breaking
// characters in authored Markdown. It must run before Markdown rendering so
// raw sequences embedded in a document cannot reach the template engine.
func Escape(text string) string {
	return escaper.Replace(text)
}
