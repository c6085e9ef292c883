// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/animap/animap-go/internal/doctree"
	"github.com/animap/animap-go/internal/model"
	"github.com/animap/animap-go/internal/store"
	"github.com/animap/animap-go/internal/util"
)

// Approve applies a ready task's draft to the live entity. For articles a
// missing language edition is created and linked into the source's
// translation group; an existing edition is overwritten after its current
// state is snapshotted to history. The entity write, the history snapshot
// and the task transition commit atomically.
func (s *TranslationService) Approve(ctx context.Context, taskID, userID int64) error {
	task, err := s.queries.GetTranslationTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}
		return err
	}
	if task.Status != model.TaskStatusReady {
		return fmt.Errorf("%w: task %d status is %s, want ready", ErrValidation, taskID, task.Status)
	}

	draft, err := decodeTaskContent(task.DraftContent)
	if err != nil {
		return err
	}

	var paths []string
	switch task.EntityType {
	case model.EntityTypeArticle:
		paths, err = s.approveArticle(ctx, task, draft, userID)
	case model.EntityTypeCity, model.EntityTypeAnime:
		paths, err = s.approveNamed(ctx, task, draft, userID)
	default:
		return fmt.Errorf("%w: unknown entity type %q", ErrValidation, task.EntityType)
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, paths...)
	s.logger.Info("translation approved",
		"category", model.EventCategoryTranslation,
		"task_id", taskID, "entity_type", task.EntityType,
		"entity_id", task.EntityID, "target_language", task.TargetLanguage,
		"user_id", userID)
	return nil
}

func (s *TranslationService) approveArticle(ctx context.Context, task model.TranslationTask, draft model.TaskContent, userID int64) ([]string, error) {
	tree, err := doctree.Parse([]byte(draft.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: draft content for task %d: %v", ErrValidation, task.ID, err)
	}
	if doctree.IsEmptyDoc(tree) {
		return nil, fmt.Errorf("%w: draft document for task %d is empty", ErrContentIntegrity, task.ID)
	}

	source, err := s.queries.GetArticle(ctx, task.EntityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: article %d", ErrNotFound, task.EntityID)
		}
		return nil, err
	}
	groupID := source.GroupID()

	existing, err := s.queries.GetArticleInGroupByLanguage(ctx, groupID, task.TargetLanguage)
	creating := errors.Is(err, sql.ErrNoRows)
	if err != nil && !creating {
		return nil, err
	}

	now := time.Now()
	finalJSON, err := encodeTaskContent(draft)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()
	qtx := s.queries.WithTx(tx)

	var slug string
	if creating {
		// First approval in this language: publish a fresh edition,
		// anchoring the group on the source if it has none yet.
		if !source.TranslationGroupID.Valid {
			if err := qtx.SetArticleTranslationGroup(ctx, source.ID, source.ID, now); err != nil {
				return nil, err
			}
		}
		// Slugs come from translated titles, which are not unique across
		// articles. Suffix with the source id when the slug is taken.
		newSlug := util.Slugify(draft.Title)
		taken, err := qtx.ArticleSlugExists(ctx, newSlug, task.TargetLanguage)
		if err != nil {
			return nil, err
		}
		if taken {
			newSlug = fmt.Sprintf("%s-%d", newSlug, task.EntityID)
		}
		created, err := qtx.CreateArticle(ctx, store.CreateArticleParams{
			Slug:               newSlug,
			Language:           task.TargetLanguage,
			Status:             model.ArticleStatusPublished,
			Title:              draft.Title,
			Description:        draft.Description,
			Content:            draft.Content,
			ContentHTML:        draft.ContentHTML,
			AuthorID:           source.AuthorID,
			CoverImageURL:      source.CoverImageURL,
			TagIDs:             source.TagIDs,
			RouteLengthKm:      source.RouteLengthKm,
			PrimaryCityID:      source.PrimaryCityID,
			TranslationGroupID: sql.NullInt64{Int64: groupID, Valid: true},
			CreatedAt:          now,
		})
		if err != nil {
			return nil, err
		}
		slug = created.Slug
	} else {
		if err := s.snapshotArticle(ctx, qtx, task.ID, userID, existing, now); err != nil {
			return nil, err
		}
		if err := qtx.UpdateArticleTranslation(ctx, store.UpdateArticleTranslationParams{
			ID:          existing.ID,
			Title:       draft.Title,
			Description: draft.Description,
			Content:     draft.Content,
			ContentHTML: draft.ContentHTML,
			UpdatedAt:   now,
		}); err != nil {
			return nil, err
		}
		slug = existing.Slug
	}

	if err := qtx.MarkTaskApproved(ctx, store.MarkTaskApprovedParams{
		ID:           task.ID,
		FinalContent: finalJSON,
		UpdatedAt:    now,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return []string{"/articles/" + slug}, nil
}

func (s *TranslationService) approveNamed(ctx context.Context, task model.TranslationTask, draft model.TaskContent, userID int64) ([]string, error) {
	var (
		slug        string
		curName     string
		curDesc     string
		hasLanguage bool
	)
	switch task.EntityType {
	case model.EntityTypeCity:
		city, err := s.queries.GetCity(ctx, task.EntityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: city %d", ErrNotFound, task.EntityID)
			}
			return nil, err
		}
		slug = "/cities/" + city.Slug
		curName = city.Name(task.TargetLanguage)
		curDesc = city.Description(task.TargetLanguage)
		hasLanguage = city.HasLanguage(task.TargetLanguage)
	case model.EntityTypeAnime:
		anime, err := s.queries.GetAnime(ctx, task.EntityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: anime %d", ErrNotFound, task.EntityID)
			}
			return nil, err
		}
		slug = "/anime/" + anime.Slug
		curName = anime.Name(task.TargetLanguage)
		curDesc = anime.Description(task.TargetLanguage)
		hasLanguage = anime.HasLanguage(task.TargetLanguage)
	}

	now := time.Now()
	finalJSON, err := encodeTaskContent(draft)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()
	qtx := s.queries.WithTx(tx)

	// Only an overwrite has a pre-existing state worth keeping. The name
	// lands in the history title column.
	if hasLanguage {
		if _, err := qtx.CreateTranslationHistory(ctx, store.CreateTranslationHistoryParams{
			TranslationTaskID: task.ID,
			EntityID:          task.EntityID,
			UserID:            userID,
			Title:             curName,
			Description:       curDesc,
			CreatedAt:         now,
		}); err != nil {
			return nil, err
		}
	}

	if task.EntityType == model.EntityTypeCity {
		err = qtx.UpdateCityTranslation(ctx, store.UpdateCityTranslationParams{
			ID:          task.EntityID,
			Language:    task.TargetLanguage,
			Name:        draft.Name,
			Description: draft.Description,
			UpdatedAt:   now,
		})
	} else {
		err = qtx.UpdateAnimeTranslation(ctx, store.UpdateAnimeTranslationParams{
			ID:          task.EntityID,
			Language:    task.TargetLanguage,
			Name:        draft.Name,
			Description: draft.Description,
			UpdatedAt:   now,
		})
	}
	if err != nil {
		return nil, err
	}

	if err := qtx.MarkTaskApproved(ctx, store.MarkTaskApprovedParams{
		ID:           task.ID,
		FinalContent: finalJSON,
		UpdatedAt:    now,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return []string{slug}, nil
}

// PublishUpdate overwrites an already approved article translation with
// edited content. The caller passes the updated_at it last saw on the
// live edition; a mismatch means someone published in between and the
// update is rejected with ErrConflict.
func (s *TranslationService) PublishUpdate(ctx context.Context, taskID, userID int64, content model.TaskContent, expectedUpdatedAt time.Time) error {
	task, err := s.queries.GetTranslationTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}
		return err
	}
	if task.Status != model.TaskStatusApproved {
		return fmt.Errorf("%w: task %d status is %s, want approved", ErrValidation, taskID, task.Status)
	}
	if task.EntityType != model.EntityTypeArticle {
		return fmt.Errorf("%w: publish-update applies to articles only", ErrValidation)
	}

	tree, err := doctree.Parse([]byte(content.Content))
	if err != nil {
		return fmt.Errorf("%w: content: %v", ErrValidation, err)
	}
	if doctree.IsEmptyDoc(tree) {
		return fmt.Errorf("%w: document for task %d is empty", ErrContentIntegrity, taskID)
	}
	content.ContentHTML = s.sanitizer.Sanitize(doctree.RenderHTML(tree))

	source, err := s.queries.GetArticle(ctx, task.EntityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: article %d", ErrNotFound, task.EntityID)
		}
		return err
	}

	live, err := s.queries.GetArticleInGroupByLanguage(ctx, source.GroupID(), task.TargetLanguage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: no %s edition for task %d", ErrNotFound, task.TargetLanguage, taskID)
		}
		return err
	}
	if !live.UpdatedAt.Equal(expectedUpdatedAt) {
		return fmt.Errorf("%w: article %d changed since %s", ErrConflict, live.ID, expectedUpdatedAt.Format(time.RFC3339))
	}

	now := time.Now()
	finalJSON, err := encodeTaskContent(content)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	qtx := s.queries.WithTx(tx)

	if err := s.snapshotArticle(ctx, qtx, taskID, userID, live, now); err != nil {
		return err
	}
	if err := qtx.UpdateArticleTranslation(ctx, store.UpdateArticleTranslationParams{
		ID:          live.ID,
		Title:       content.Title,
		Description: content.Description,
		Content:     content.Content,
		ContentHTML: content.ContentHTML,
		UpdatedAt:   now,
	}); err != nil {
		return err
	}
	if err := qtx.UpdateTaskFinalContent(ctx, taskID, finalJSON, now); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidate(ctx, "/articles/"+live.Slug)
	s.logger.Info("translation updated",
		"category", model.EventCategoryTranslation,
		"task_id", taskID, "article_id", live.ID, "user_id", userID)
	return nil
}

// snapshotArticle appends the article's current translatable fields to
// the task's history.
func (s *TranslationService) snapshotArticle(ctx context.Context, qtx *store.Queries, taskID, userID int64, a model.Article, now time.Time) error {
	_, err := qtx.CreateTranslationHistory(ctx, store.CreateTranslationHistoryParams{
		TranslationTaskID: taskID,
		EntityID:          a.ID,
		UserID:            userID,
		Title:             a.Title,
		Description:       a.Description,
		Content:           a.Content,
		ContentHTML:       a.ContentHTML,
		CreatedAt:         now,
	})
	return err
}

func (s *TranslationService) invalidate(ctx context.Context, paths ...string) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.InvalidatePaths(ctx, paths...)
}
