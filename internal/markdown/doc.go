// Package markdown wraps the goldmark engine behind the MarkdownParser
// contract so the compiler can treat rendering as an opaque function and
// tests can substitute counting or failing parsers.
package markdown
