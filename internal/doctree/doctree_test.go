package doctree

import (
	"encoding/json"
	"reflect"
	"testing"
)

const sampleDoc = `{
	"type": "doc",
	"content": [
		{"type": "heading", "attrs": {"level": 2}, "content": [
			{"type": "text", "text": "Visiting Hida-Takayama"}
		]},
		{"type": "paragraph", "content": [
			{"type": "text", "text": "The old town is "},
			{"type": "text", "marks": [{"type": "bold"}], "text": "beautiful"},
			{"type": "text", "text": " in autumn."}
		]},
		{"type": "image", "attrs": {"src": "/img/takayama.jpg", "alt": "old town"}},
		{"type": "customEmbed", "attrs": {"provider": "map", "zoom": 14}}
	]
}`

func parseSample(t *testing.T) *Node {
	t.Helper()
	n, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return n
}

func TestExtractLeafTexts_Order(t *testing.T) {
	n := parseSample(t)

	got := ExtractLeafTexts(n)
	want := []string{
		"Visiting Hida-Takayama",
		"The old town is ",
		"beautiful",
		" in autumn.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLeafTexts = %v, want %v", got, want)
	}
}

func TestExtractLeafTexts_NodeWithTextAndChildren(t *testing.T) {
	// A node carrying both text and content contributes its own text
	// before descending.
	text := "parent"
	child := "child"
	n := &Node{
		Type: "weird",
		Text: &text,
		Content: []*Node{
			{Type: "text", Text: &child},
		},
	}

	got := ExtractLeafTexts(n)
	want := []string{"parent", "child"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLeafTexts = %v, want %v", got, want)
	}
}

func TestReplaceLeafTexts_IdentityLaw(t *testing.T) {
	n := parseSample(t)

	got := ReplaceLeafTexts(n, map[string]string{})
	if !reflect.DeepEqual(got, n) {
		t.Errorf("ReplaceLeafTexts with empty map changed the tree:\ngot  %+v\nwant %+v", got, n)
	}
}

func TestReplaceLeafTexts_RoundTripOrder(t *testing.T) {
	n := parseSample(t)

	translations := map[string]string{}
	for _, text := range ExtractLeafTexts(n) {
		translations[text] = "T:" + text
	}

	replaced := ReplaceLeafTexts(n, translations)
	got := ExtractLeafTexts(replaced)

	want := make([]string, 0, len(got))
	for _, text := range ExtractLeafTexts(n) {
		want = append(want, translations[text])
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestReplaceLeafTexts_DoesNotMutateInput(t *testing.T) {
	n := parseSample(t)
	before, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	_ = ReplaceLeafTexts(n, map[string]string{"beautiful": "magnifique"})

	after, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("input tree mutated:\nbefore %s\nafter  %s", before, after)
	}
}

func TestReplaceLeafTexts_DuplicateTextsShareTranslation(t *testing.T) {
	dup := "same"
	n := &Node{
		Type: TypeDoc,
		Content: []*Node{
			{Type: "text", Text: &dup},
			{Type: "text", Text: &dup},
		},
	}

	replaced := ReplaceLeafTexts(n, map[string]string{"same": "onaji"})
	got := ExtractLeafTexts(replaced)
	want := []string{"onaji", "onaji"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLeafTexts = %v, want %v", got, want)
	}
}

func TestReplaceLeafTexts_UnmappedLeavesUnchanged(t *testing.T) {
	n := parseSample(t)

	replaced := ReplaceLeafTexts(n, map[string]string{"beautiful": "schoen"})
	got := ExtractLeafTexts(replaced)
	want := []string{
		"Visiting Hida-Takayama",
		"The old town is ",
		"schoen",
		" in autumn.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLeafTexts = %v, want %v", got, want)
	}
}

func TestMarshal_PreservesUnknownFields(t *testing.T) {
	n := parseSample(t)

	out, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got, want any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("Unmarshal marshaled tree: %v", err)
	}
	if err := json.Unmarshal([]byte(sampleDoc), &want); err != nil {
		t.Fatalf("Unmarshal sample: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round-tripped JSON differs:\ngot  %v\nwant %v", got, want)
	}
}

func TestUnmarshal_NullTextIsAbsent(t *testing.T) {
	n, err := Parse([]byte(`{"type": "text", "text": null}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n.Text != nil {
		t.Errorf("Text = %q, want nil", *n.Text)
	}
	if got := ExtractLeafTexts(n); len(got) != 0 {
		t.Errorf("ExtractLeafTexts = %v, want empty", got)
	}
}

func TestIsEmptyDoc(t *testing.T) {
	tests := []struct {
		name string
		json string
		want bool
	}{
		{"empty content", `{"type": "doc", "content": []}`, true},
		{"missing content", `{"type": "doc"}`, true},
		{"non-empty", sampleDoc, false},
		{"non-doc root", `{"type": "paragraph"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse([]byte(tt.json))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := IsEmptyDoc(n); got != tt.want {
				t.Errorf("IsEmptyDoc = %v, want %v", got, tt.want)
			}
		})
	}

	if !IsEmptyDoc(nil) {
		t.Error("IsEmptyDoc(nil) = false, want true")
	}
}
