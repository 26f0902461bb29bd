package compiler

import "testing"

func TestMappingArtifactRef(t *testing.T) {
	m := DefaultMapping()

	cases := []struct {
		source   string
		artifact string
	}{
		{"md/index.md", "html/index.html"},
		{"md/blog/post.md", "html/blog/post.html"},
	}
	for _, tc := range cases {
		if got := m.ArtifactRef(tc.source); got != tc.artifact {
			t.Errorf("ArtifactRef(%q) = %q, want %q", tc.source, got, tc.artifact)
		}
		if got := m.SourceRef(tc.artifact); got != tc.source {
			t.Errorf("SourceRef(%q) = %q, want %q", tc.artifact, got, tc.source)
		}
	}
}

func TestMappingIsSource(t *testing.T) {
	m := Mapping{SourceRoot: "content/", DestRoot: "public/", SourceExt: ".md", DestExt: ".html"}

	if !m.IsSource("content/a.md") {
		t.Fatalf("expected content/a.md to be a source")
	}
	if m.IsSource("public/a.html") {
		t.Fatalf("artifact key reported as source")
	}
	if m.IsSource("content/a.txt") {
		t.Fatalf("wrong extension reported as source")
	}
}
