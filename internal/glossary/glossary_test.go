package glossary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGlossary() Glossary {
	return Glossary{
		"Your Name": {"ja": "君の名は。"},
		"Hida":      {"ja": "飛騨"},
		"Itomori":   {}, // fictional town, kept verbatim in every language
	}
}

func TestProtect_ReplacesAllOccurrences(t *testing.T) {
	p := NewProtector(testGlossary())

	got := p.Protect("Hida is the region Hida cattle come from.")
	if len(got.Terms) != 1 {
		t.Fatalf("Terms = %v, want exactly one entry", got.Terms)
	}
	want := "[[TERM0]] is the region [[TERM0]] cattle come from."
	if got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
	if got.Terms["[[TERM0]]"] != "Hida" {
		t.Errorf("Terms[TERM0] = %q, want Hida", got.Terms["[[TERM0]]"])
	}
}

func TestProtect_NoTermsIsIdentity(t *testing.T) {
	p := NewProtector(testGlossary())

	text := "Nothing from the glossary appears here."
	got := p.Protect(text)
	if got.Text != text {
		t.Errorf("Text = %q, want unchanged", got.Text)
	}
	if len(got.Terms) != 0 {
		t.Errorf("Terms = %v, want empty", got.Terms)
	}
}

func TestRestore_UsesGlossaryTranslation(t *testing.T) {
	p := NewProtector(testGlossary())

	protected := p.Protect("The movie Your Name is set near Hida.")
	got := p.Restore(protected.Text, protected.Terms, "ja")
	want := "The movie 君の名は。 is set near 飛騨."
	if got != want {
		t.Errorf("Restore = %q, want %q", got, want)
	}
}

func TestRestore_FallsBackToOriginalTerm(t *testing.T) {
	p := NewProtector(testGlossary())

	protected := p.Protect("Itomori does not exist.")
	got := p.Restore(protected.Text, protected.Terms, "ja")
	if got != "Itomori does not exist." {
		t.Errorf("Restore = %q, want original term back", got)
	}
}

func TestRestore_InverseUnderIdentityTranslation(t *testing.T) {
	p := NewProtector(Glossary{"Hida": {}, "Your Name": {}})

	text := "Your Name made Hida famous."
	protected := p.Protect(text)
	// No translation step at all: restoring must give the input back.
	got := p.Restore(protected.Text, protected.Terms, "en")
	if got != text {
		t.Errorf("Restore = %q, want %q", got, text)
	}
}

func TestRestore_TolerantOfDrift(t *testing.T) {
	p := NewProtector(testGlossary())

	protected := p.Protect("Hida")
	// Translation providers sometimes pad or case-shift the token.
	drifted := "[[ term0 ]]"
	got := p.Restore(drifted, protected.Terms, "ja")
	if got != "飛騨" {
		t.Errorf("Restore = %q, want 飛騨", got)
	}
}

func TestProtect_LongestTermFirst(t *testing.T) {
	p := NewProtector(Glossary{
		"Takayama":      {"ja": "高山"},
		"Hida-Takayama": {"ja": "飛騨高山"},
	})

	protected := p.Protect("Welcome to Hida-Takayama station.")
	got := p.Restore(protected.Text, protected.Terms, "ja")
	want := "Welcome to 飛騨高山 station."
	if got != want {
		t.Errorf("Restore = %q, want %q", got, want)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.yml")
	content := `terms:
  "Your Name":
    ja: "君の名は。"
  "Hida":
    ja: "飛騨"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	g, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "飛騨", g["Hida"]["ja"])
	assert.Equal(t, "君の名は。", g["Your Name"]["ja"])
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
