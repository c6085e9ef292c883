package translator

import (
	"context"
	"strings"
	"testing"
)

func TestFunc_ImplementsTranslator(t *testing.T) {
	var tr Translator = Func(func(_ context.Context, text, lang string) (string, error) {
		return lang + ":" + text, nil
	})

	got, err := tr.Translate(context.Background(), "hello", "ja")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "ja:hello" {
		t.Errorf("Translate = %q, want %q", got, "ja:hello")
	}
}

func TestLanguageName(t *testing.T) {
	if got := LanguageName("ja"); got != "Japanese" {
		t.Errorf("LanguageName(ja) = %q", got)
	}
	if got := LanguageName("en"); got != "English" {
		t.Errorf("LanguageName(en) = %q", got)
	}
	// Unknown codes pass through so prompts stay usable.
	if got := LanguageName("xx"); got != "xx" {
		t.Errorf("LanguageName(xx) = %q", got)
	}
}

func TestNewOpenAITranslator_RequiresKey(t *testing.T) {
	if _, err := NewOpenAITranslator(OpenAIOptions{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestOpenAITranslator_BlankTextSkipsProvider(t *testing.T) {
	tr, err := NewOpenAITranslator(OpenAIOptions{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOpenAITranslator: %v", err)
	}

	// No network call happens for whitespace-only input.
	got, err := tr.Translate(context.Background(), "   ", "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "   " {
		t.Errorf("Translate = %q, want input unchanged", got)
	}
}

func TestSystemPrompt_MentionsPlaceholders(t *testing.T) {
	if !strings.Contains(systemPromptFormat, "[[TERMn]]") {
		t.Error("system prompt must instruct the model to keep placeholder tokens")
	}
}
