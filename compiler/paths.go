package compiler

import "strings"

// Mapping is the fixed path transformation between the source namespace and
// the artifact namespace: SourceRoot + name + SourceExt maps to DestRoot +
// name + DestExt. It is deterministic and invertible for well-formed keys.
type Mapping struct {
	SourceRoot string
	DestRoot   string
	SourceExt  string
	DestExt    string
}

// DefaultMapping mirrors the conventional md/ to html/ layout.
func DefaultMapping() Mapping {
	return Mapping{
		SourceRoot: "md/",
		DestRoot:   "html/",
		SourceExt:  ".md",
		DestExt:    ".html",
	}
}

// ArtifactRef derives the artifact key for a source key.
func (m Mapping) ArtifactRef(sourceRef string) string {
	name := strings.TrimPrefix(sourceRef, m.SourceRoot)
	name = strings.TrimSuffix(name, m.SourceExt)
	return m.DestRoot + name + m.DestExt
}

// SourceRef derives the source key for an artifact key.
func (m Mapping) SourceRef(artifactRef string) string {
	name := strings.TrimPrefix(artifactRef, m.DestRoot)
	name = strings.TrimSuffix(name, m.DestExt)
	return m.SourceRoot + name + m.SourceExt
}

// IsSource reports whether key lives in the source namespace.
func (m Mapping) IsSource(key string) bool {
	return strings.HasPrefix(key, m.SourceRoot) && strings.HasSuffix(key, m.SourceExt)
}
