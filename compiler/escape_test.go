package compiler

import (
	"strings"
	"testing"
)

func TestEscapeNeutralisesControlSequences(t *testing.T) {
	input := `<script>alert(1)</script> {{7*7}} {% if True %} a & b`

	out := Escape(input)

	for _, raw := range []string{"<", ">", "{{", "}}", "{%", "%}"} {
		if strings.Contains(out, raw) {
			t.Fatalf("escaped output still contains %q: %q", raw, out)
		}
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("expected script tag escaped, got %q", out)
	}
	if !strings.Contains(out, "&#123;&#123;7*7&#125;&#125;") {
		t.Fatalf("expected expression delimiters escaped, got %q", out)
	}
	if !strings.Contains(out, "&#123;&#37; if True &#37;&#125;") {
		t.Fatalf("expected statement delimiters escaped, got %q", out)
	}
}

func TestEscapeAmpersandOnce(t *testing.T) {
	out := Escape("a & b")
	if out != "a &amp; b" {
		t.Fatalf("expected single escape, got %q", out)
	}
	if strings.Contains(out, "&amp;amp;") {
		t.Fatalf("ampersand was double escaped: %q", out)
	}

	// Entities inserted for other sequences keep their ampersand intact.
	out = Escape("<")
	if out != "&lt;" {
		t.Fatalf("expected &lt;, got %q", out)
	}
}

func TestEscapeTable(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"{{", "&#123;&#123;"},
		{"}}", "&#125;&#125;"},
		{"{%", "&#123;&#37;"},
		{"%}", "&#37;&#125;"},
		{"{{{", "&#123;&#123;{"},
		{"&&", "&amp;&amp;"},
	}
	for _, tc := range cases {
		if got := Escape(tc.in); got != tc.want {
			t.Errorf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
