// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/animap/animap-go/internal/model"
)

const cityColumns = `id, slug, name_ja, name_en, description_ja, description_en,
	latitude, longitude, created_at, updated_at`

const animeColumns = `id, slug, name_ja, name_en, description_ja, description_en,
	created_at, updated_at`

func scanCity(row interface{ Scan(...any) error }) (model.City, error) {
	var c model.City
	err := row.Scan(
		&c.ID, &c.Slug, &c.NameJA, &c.NameEN, &c.DescriptionJA, &c.DescriptionEN,
		&c.Latitude, &c.Longitude, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func scanAnime(row interface{ Scan(...any) error }) (model.Anime, error) {
	var a model.Anime
	err := row.Scan(
		&a.ID, &a.Slug, &a.NameJA, &a.NameEN, &a.DescriptionJA, &a.DescriptionEN,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// translationColumns maps a target language to the suffixed column pair
// used by the columnar i18n layout of cities and anime.
func translationColumns(language string) (nameCol, descCol string, err error) {
	switch language {
	case model.LangEN:
		return "name_en", "description_en", nil
	case model.LangJA:
		return "name_ja", "description_ja", nil
	default:
		return "", "", fmt.Errorf("unsupported language %q", language)
	}
}

// GetCity fetches a city by id.
func (q *Queries) GetCity(ctx context.Context, id int64) (model.City, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+cityColumns+` FROM cities WHERE id = ?`, id)
	return scanCity(row)
}

// ListCities returns all cities.
func (q *Queries) ListCities(ctx context.Context) ([]model.City, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+cityColumns+` FROM cities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []model.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// CreateCityParams holds fields for a new city row.
type CreateCityParams struct {
	Slug          string
	NameJA        string
	NameEN        string
	DescriptionJA string
	DescriptionEN string
	Latitude      float64
	Longitude     float64
	CreatedAt     time.Time
}

// CreateCity inserts a city row and returns it.
func (q *Queries) CreateCity(ctx context.Context, p CreateCityParams) (model.City, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO cities (slug, name_ja, name_en, description_ja, description_en,
			latitude, longitude, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+cityColumns,
		p.Slug, p.NameJA, p.NameEN, p.DescriptionJA, p.DescriptionEN,
		p.Latitude, p.Longitude, p.CreatedAt, p.CreatedAt,
	)
	return scanCity(row)
}

// UpdateCityTranslationParams applies translated text onto the suffixed
// columns for one language.
type UpdateCityTranslationParams struct {
	ID          int64
	Language    string
	Name        string
	Description string
	UpdatedAt   time.Time
}

// UpdateCityTranslation writes the translated name and description into
// the language's columns on the shared row.
func (q *Queries) UpdateCityTranslation(ctx context.Context, p UpdateCityTranslationParams) error {
	nameCol, descCol, err := translationColumns(p.Language)
	if err != nil {
		return err
	}
	// Column names come from translationColumns, never from input.
	query := fmt.Sprintf(
		`UPDATE cities SET %s = ?, %s = ?, updated_at = ? WHERE id = ?`, nameCol, descCol)
	_, err = q.db.ExecContext(ctx, query, p.Name, p.Description, p.UpdatedAt, p.ID)
	return err
}

// GetAnime fetches an anime by id.
func (q *Queries) GetAnime(ctx context.Context, id int64) (model.Anime, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+animeColumns+` FROM anime WHERE id = ?`, id)
	return scanAnime(row)
}

// ListAnime returns all anime titles.
func (q *Queries) ListAnime(ctx context.Context) ([]model.Anime, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+animeColumns+` FROM anime ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var titles []model.Anime
	for rows.Next() {
		a, err := scanAnime(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, a)
	}
	return titles, rows.Err()
}

// CreateAnimeParams holds fields for a new anime row.
type CreateAnimeParams struct {
	Slug          string
	NameJA        string
	NameEN        string
	DescriptionJA string
	DescriptionEN string
	CreatedAt     time.Time
}

// CreateAnime inserts an anime row and returns it.
func (q *Queries) CreateAnime(ctx context.Context, p CreateAnimeParams) (model.Anime, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO anime (slug, name_ja, name_en, description_ja, description_en, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+animeColumns,
		p.Slug, p.NameJA, p.NameEN, p.DescriptionJA, p.DescriptionEN, p.CreatedAt, p.CreatedAt,
	)
	return scanAnime(row)
}

// UpdateAnimeTranslationParams applies translated text onto the suffixed
// columns for one language.
type UpdateAnimeTranslationParams struct {
	ID          int64
	Language    string
	Name        string
	Description string
	UpdatedAt   time.Time
}

// UpdateAnimeTranslation writes the translated name and description into
// the language's columns on the shared row.
func (q *Queries) UpdateAnimeTranslation(ctx context.Context, p UpdateAnimeTranslationParams) error {
	nameCol, descCol, err := translationColumns(p.Language)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(
		`UPDATE anime SET %s = ?, %s = ?, updated_at = ? WHERE id = ?`, nameCol, descCol)
	_, err = q.db.ExecContext(ctx, query, p.Name, p.Description, p.UpdatedAt, p.ID)
	return err
}
