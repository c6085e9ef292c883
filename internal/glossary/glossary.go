// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package glossary protects fixed vocabulary (anime titles, character and
// place names) around a machine translation call. Terms are swapped for
// placeholder tokens before translation and swapped back afterwards, so
// the provider never gets a chance to mistranslate them.
package glossary

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Glossary maps a source term to its fixed translation per language.
// A missing language entry means the term is kept verbatim.
type Glossary map[string]map[string]string

// file is the on-disk YAML shape.
type file struct {
	Terms Glossary `yaml:"terms"`
}

// LoadFile reads a glossary from a YAML file.
func LoadFile(path string) (Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading glossary: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing glossary: %w", err)
	}
	if f.Terms == nil {
		f.Terms = Glossary{}
	}
	return f.Terms, nil
}

// Protector replaces glossary terms with placeholders and restores them.
type Protector struct {
	glossary Glossary
	terms    []string // glossary terms, longest first
}

// NewProtector creates a Protector for the given glossary. Terms are
// matched longest first so a term embedded in a longer one never wins.
func NewProtector(g Glossary) *Protector {
	terms := make([]string, 0, len(g))
	for term := range g {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	return &Protector{glossary: g, terms: terms}
}

// Protected is the result of protecting a text: the text with glossary
// terms replaced by placeholders, and the placeholder-to-term mapping
// needed to restore them.
type Protected struct {
	Text  string
	Terms map[string]string // placeholder -> original term
}

// Protect replaces every occurrence of every glossary term found in text
// with an index-based placeholder. Matching is by literal substring, not
// word boundary; terms not present contribute no placeholders.
func (p *Protector) Protect(text string) Protected {
	out := Protected{Text: text, Terms: map[string]string{}}
	idx := 0
	for _, term := range p.terms {
		if !strings.Contains(out.Text, term) {
			continue
		}
		placeholder := fmt.Sprintf("[[TERM%d]]", idx)
		out.Text = strings.ReplaceAll(out.Text, term, placeholder)
		out.Terms[placeholder] = term
		idx++
	}
	return out
}

// Restore replaces each placeholder in text with the glossary translation
// of its term for targetLang, or the term itself when the glossary has no
// entry for that language. The match is tolerant of whitespace and case
// drift the translation step may introduce around the token.
func (p *Protector) Restore(text string, terms map[string]string, targetLang string) string {
	for placeholder, term := range terms {
		replacement := term
		if langs, ok := p.glossary[term]; ok {
			if t, ok := langs[targetLang]; ok && t != "" {
				replacement = t
			}
		}
		text = placeholderPattern(placeholder).ReplaceAllString(text, replacement)
	}
	return text
}

// placeholderPattern builds a lenient regexp for a "[[TERMn]]" token:
// case-insensitive, with optional whitespace between every bracket and
// the token body.
func placeholderPattern(placeholder string) *regexp.Regexp {
	body := strings.TrimSuffix(strings.TrimPrefix(placeholder, "[["), "]]")
	return regexp.MustCompile(`(?i)\[\s*\[\s*` + regexp.QuoteMeta(body) + `\s*\]\s*\]`)
}
