// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translator wraps the external machine translation capability.
// The pipeline only depends on the Translator interface; the OpenAI
// implementation lives in this package, fakes live in tests.
package translator

import "context"

// Translator translates a single text into the target language.
// Errors propagate to the caller; there is no built-in retry.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, text, targetLang string) (string, error)

// Translate implements Translator.
func (f Func) Translate(ctx context.Context, text, targetLang string) (string, error) {
	return f(ctx, text, targetLang)
}

// languageNames maps language codes to the names used in prompts.
var languageNames = map[string]string{
	"en": "English",
	"ja": "Japanese",
}

// LanguageName returns the prompt-facing name for a language code,
// falling back to the code itself.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
