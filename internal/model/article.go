// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Article statuses
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusInReview  = "in_review"
	ArticleStatusPublished = "published"
	ArticleStatusRejected  = "rejected"
)

// Article represents one language edition of a logical piece of content.
// Editions of the same piece in different languages are separate rows
// linked through TranslationGroupID. By convention the group id is the row
// id of the first article the group was anchored on, so the anchor article
// points at itself.
type Article struct {
	ID                 int64         `json:"id"`
	Slug               string        `json:"slug"`
	Language           string        `json:"language"`
	Status             string        `json:"status"`
	Title              string        `json:"title"`
	Description        string        `json:"description"`
	Content            string        `json:"content"`      // document tree JSON
	ContentHTML        string        `json:"content_html"` // rendered markup
	AuthorID           int64         `json:"author_id"`
	CoverImageURL      string        `json:"cover_image_url"`
	TagIDs             string        `json:"tag_ids"` // JSON array of tag ids
	RouteLengthKm      float64       `json:"route_length_km"`
	PrimaryCityID      sql.NullInt64 `json:"primary_city_id,omitempty"`
	TranslationGroupID sql.NullInt64 `json:"translation_group_id,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// IsPublished returns true if the article is published.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// GroupID returns the translation group id, falling back to the article's
// own id when the group has not been anchored yet.
func (a *Article) GroupID() int64 {
	if a.TranslationGroupID.Valid {
		return a.TranslationGroupID.Int64
	}
	return a.ID
}
