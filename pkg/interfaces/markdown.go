package interfaces

// ParseOptions tunes Markdown rendering behaviour per invocation.
type ParseOptions struct {
	// Extensions selects goldmark extensions by name (gfm, table, linkify...).
	// An empty list enables the default set.
	Extensions []string
	// HardWraps renders single newlines as <br> elements.
	HardWraps bool
	// SafeMode suppresses raw HTML passthrough in the rendered output.
	SafeMode bool
}

// MarkdownParser converts Markdown text into HTML markup. Implementations
// must be stateless so a single instance can be shared across goroutines.
type MarkdownParser interface {
	Parse(markdown []byte) ([]byte, error)
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}
