// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// City represents a pilgrimage destination. Unlike articles, a city is a
// single row for all languages: each language's text lives in suffixed
// columns (columnar i18n).
type City struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	NameJA        string    `json:"name_ja"`
	NameEN        string    `json:"name_en"`
	DescriptionJA string    `json:"description_ja"`
	DescriptionEN string    `json:"description_en"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Name returns the city name for the given language.
func (c *City) Name(lang string) string {
	if lang == LangEN {
		return c.NameEN
	}
	return c.NameJA
}

// Description returns the city description for the given language.
func (c *City) Description(lang string) string {
	if lang == LangEN {
		return c.DescriptionEN
	}
	return c.DescriptionJA
}

// HasLanguage reports whether the city already carries text for lang.
// A language counts as covered when its name column is non-empty.
func (c *City) HasLanguage(lang string) bool {
	return c.Name(lang) != ""
}

// Anime represents an anime title, stored with the same columnar i18n
// layout as City.
type Anime struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	NameJA        string    `json:"name_ja"`
	NameEN        string    `json:"name_en"`
	DescriptionJA string    `json:"description_ja"`
	DescriptionEN string    `json:"description_en"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Name returns the anime name for the given language.
func (a *Anime) Name(lang string) string {
	if lang == LangEN {
		return a.NameEN
	}
	return a.NameJA
}

// Description returns the anime description for the given language.
func (a *Anime) Description(lang string) string {
	if lang == LangEN {
		return a.DescriptionEN
	}
	return a.DescriptionJA
}

// HasLanguage reports whether the anime already carries text for lang.
func (a *Anime) HasLanguage(lang string) bool {
	return a.Name(lang) != ""
}
