// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Language codes supported by the platform.
const (
	LangEN = "en"
	LangJA = "ja"
)

// TargetLanguages lists the languages translation tasks may target.
var TargetLanguages = []string{LangEN, LangJA}

// IsTargetLanguage reports whether code is a supported target language.
func IsTargetLanguage(code string) bool {
	for _, l := range TargetLanguages {
		if l == code {
			return true
		}
	}
	return false
}
