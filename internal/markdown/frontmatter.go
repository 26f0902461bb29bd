package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// Meta carries the structured front matter extracted from a Markdown source.
// Authors are not required to include any of it; a source without a front
// matter envelope yields a zero Meta and an unchanged body.
type Meta struct {
	Title  string         `yaml:"title"`
	Date   time.Time      `yaml:"date"`
	Draft  bool           `yaml:"draft"`
	Custom map[string]any `yaml:",inline"`
}

// ExtractFrontMatter splits a Markdown source into its front matter metadata
// and body. The body is returned without the envelope delimiters.
func ExtractFrontMatter(source []byte) (Meta, []byte, error) {
	var meta Meta

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta, body, nil
}
