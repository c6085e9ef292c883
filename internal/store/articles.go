// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/animap/animap-go/internal/model"
)

const articleColumns = `id, slug, language, status, title, description, content, content_html,
	author_id, cover_image_url, tag_ids, route_length_km, primary_city_id,
	translation_group_id, created_at, updated_at`

func scanArticle(row interface{ Scan(...any) error }) (model.Article, error) {
	var a model.Article
	err := row.Scan(
		&a.ID, &a.Slug, &a.Language, &a.Status, &a.Title, &a.Description,
		&a.Content, &a.ContentHTML, &a.AuthorID, &a.CoverImageURL, &a.TagIDs,
		&a.RouteLengthKm, &a.PrimaryCityID, &a.TranslationGroupID,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// GetArticle fetches an article by id.
func (q *Queries) GetArticle(ctx context.Context, id int64) (model.Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

// ListPublishedArticles returns all published articles, oldest first.
func (q *Queries) ListPublishedArticles(ctx context.Context) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE status = ? ORDER BY id`,
		model.ArticleStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ArticleSlugExists reports whether an article already uses the slug in
// the given language.
func (q *Queries) ArticleSlugExists(ctx context.Context, slug, language string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE slug = ? AND language = ?`,
		slug, language).Scan(&n)
	return n > 0, err
}

// GetArticleInGroupByLanguage finds the article in a translation group
// written in the given language. The group anchor points at itself, so a
// row is in group G when its translation_group_id is G or its own id is G.
func (q *Queries) GetArticleInGroupByLanguage(ctx context.Context, groupID int64, language string) (model.Article, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+` FROM articles
		WHERE (translation_group_id = ? OR id = ?) AND language = ?
		LIMIT 1`,
		groupID, groupID, language)
	return scanArticle(row)
}

// ListGroupSiblingLanguages returns the distinct languages of the other
// members of an article's translation group. The article itself is
// excluded: coverage means a sibling row already exists in a language,
// not that the source happens to be written in it.
func (q *Queries) ListGroupSiblingLanguages(ctx context.Context, groupID, excludeID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT DISTINCT language FROM articles
		WHERE (translation_group_id = ? OR id = ?) AND id != ?`,
		groupID, groupID, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var langs []string
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, rows.Err()
}

// CreateArticleParams holds all fields for a new article row.
type CreateArticleParams struct {
	Slug               string
	Language           string
	Status             string
	Title              string
	Description        string
	Content            string
	ContentHTML        string
	AuthorID           int64
	CoverImageURL      string
	TagIDs             string
	RouteLengthKm      float64
	PrimaryCityID      sql.NullInt64
	TranslationGroupID sql.NullInt64
	CreatedAt          time.Time
}

// CreateArticle inserts a new article row and returns it.
func (q *Queries) CreateArticle(ctx context.Context, p CreateArticleParams) (model.Article, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO articles (slug, language, status, title, description, content, content_html,
			author_id, cover_image_url, tag_ids, route_length_km, primary_city_id,
			translation_group_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+articleColumns,
		p.Slug, p.Language, p.Status, p.Title, p.Description, p.Content, p.ContentHTML,
		p.AuthorID, p.CoverImageURL, p.TagIDs, p.RouteLengthKm, p.PrimaryCityID,
		p.TranslationGroupID, p.CreatedAt, p.CreatedAt,
	)
	return scanArticle(row)
}

// UpdateArticleTranslationParams holds the translated fields applied to
// an existing article row.
type UpdateArticleTranslationParams struct {
	ID          int64
	Title       string
	Description string
	Content     string
	ContentHTML string
	UpdatedAt   time.Time
}

// UpdateArticleTranslation overwrites the translatable fields of an
// article in place.
func (q *Queries) UpdateArticleTranslation(ctx context.Context, p UpdateArticleTranslationParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE articles SET title = ?, description = ?, content = ?, content_html = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Description, p.Content, p.ContentHTML, p.UpdatedAt, p.ID)
	return err
}

// SetArticleTranslationGroup sets the translation group anchor for an
// article. Used both when linking a new translation and when anchoring a
// source article to itself.
func (q *Queries) SetArticleTranslationGroup(ctx context.Context, id, groupID int64, now time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE articles SET translation_group_id = ?, updated_at = ? WHERE id = ?`,
		groupID, now, id)
	return err
}
