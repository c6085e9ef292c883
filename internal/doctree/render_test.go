package doctree

import (
	"strings"
	"testing"
)

func TestRenderHTML_Blocks(t *testing.T) {
	n := parseSample(t)

	got := RenderHTML(n)
	want := `<h2>Visiting Hida-Takayama</h2>` +
		`<p>The old town is <strong>beautiful</strong> in autumn.</p>` +
		`<img src="/img/takayama.jpg" alt="old town">`
	if got != want {
		t.Errorf("RenderHTML = %q, want %q", got, want)
	}
}

func TestRenderHTML_EscapesText(t *testing.T) {
	n, err := Parse([]byte(`{"type": "paragraph", "content": [
		{"type": "text", "text": "<script>alert(1)</script>"}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := RenderHTML(n)
	if strings.Contains(got, "<script>") {
		t.Errorf("RenderHTML did not escape markup: %q", got)
	}
}

func TestRenderHTML_NestedMarksCloseInReverse(t *testing.T) {
	n, err := Parse([]byte(`{"type": "paragraph", "content": [
		{"type": "text", "marks": [{"type": "bold"}, {"type": "italic"}], "text": "x"}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := RenderHTML(n)
	want := `<p><strong><em>x</em></strong></p>`
	if got != want {
		t.Errorf("RenderHTML = %q, want %q", got, want)
	}
}

func TestRenderHTML_LinkMark(t *testing.T) {
	n, err := Parse([]byte(`{"type": "paragraph", "content": [
		{"type": "text", "marks": [{"type": "link", "attrs": {"href": "https://example.com"}}], "text": "here"}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := RenderHTML(n)
	want := `<p><a href="https://example.com">here</a></p>`
	if got != want {
		t.Errorf("RenderHTML = %q, want %q", got, want)
	}
}

func TestRenderHTML_UnknownNodeRendersChildren(t *testing.T) {
	n, err := Parse([]byte(`{"type": "callout", "content": [
		{"type": "paragraph", "content": [{"type": "text", "text": "note"}]}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := RenderHTML(n)
	want := `<p>note</p>`
	if got != want {
		t.Errorf("RenderHTML = %q, want %q", got, want)
	}
}

func TestRenderHTML_Lists(t *testing.T) {
	n, err := Parse([]byte(`{"type": "doc", "content": [
		{"type": "bulletList", "content": [
			{"type": "listItem", "content": [
				{"type": "paragraph", "content": [{"type": "text", "text": "a"}]}
			]}
		]}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := RenderHTML(n)
	want := `<ul><li><p>a</p></li></ul>`
	if got != want {
		t.Errorf("RenderHTML = %q, want %q", got, want)
	}
}
