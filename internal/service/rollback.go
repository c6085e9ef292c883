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
)

// Rollback restores a history snapshot onto the live entity. The current
// state is snapshotted first, so a rollback can itself be rolled back. A
// snapshot belonging to a different task is reported as not found, the
// same as a missing one.
func (s *TranslationService) Rollback(ctx context.Context, taskID, historyID, userID int64) error {
	task, err := s.queries.GetTranslationTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
		}
		return err
	}

	snapshot, err := s.queries.GetTranslationHistory(ctx, historyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: history %d", ErrNotFound, historyID)
		}
		return err
	}
	if snapshot.TranslationTaskID != taskID {
		return fmt.Errorf("%w: history %d", ErrNotFound, historyID)
	}

	var paths []string
	switch task.EntityType {
	case model.EntityTypeArticle:
		paths, err = s.rollbackArticle(ctx, task, snapshot, userID)
	case model.EntityTypeCity, model.EntityTypeAnime:
		paths, err = s.rollbackNamed(ctx, task, snapshot, userID)
	default:
		return fmt.Errorf("%w: unknown entity type %q", ErrValidation, task.EntityType)
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, paths...)
	s.logger.Info("translation rolled back",
		"category", model.EventCategoryTranslation,
		"task_id", taskID, "history_id", historyID, "user_id", userID)
	return nil
}

func (s *TranslationService) rollbackArticle(ctx context.Context, task model.TranslationTask, snapshot model.TranslationHistory, userID int64) ([]string, error) {
	tree, err := doctree.Parse([]byte(snapshot.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: history %d content: %v", ErrValidation, snapshot.ID, err)
	}
	if doctree.IsEmptyDoc(tree) {
		return nil, fmt.Errorf("%w: history %d holds an empty document", ErrContentIntegrity, snapshot.ID)
	}

	// Article snapshots record the translated edition they were taken from.
	live, err := s.queries.GetArticle(ctx, snapshot.EntityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: article %d", ErrNotFound, snapshot.EntityID)
		}
		return nil, err
	}

	now := time.Now()
	finalJSON, err := encodeTaskContent(model.TaskContent{
		Title:       snapshot.Title,
		Description: snapshot.Description,
		Content:     snapshot.Content,
		ContentHTML: snapshot.ContentHTML,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()
	qtx := s.queries.WithTx(tx)

	if err := s.snapshotArticle(ctx, qtx, task.ID, userID, live, now); err != nil {
		return nil, err
	}
	if err := qtx.UpdateArticleTranslation(ctx, store.UpdateArticleTranslationParams{
		ID:          live.ID,
		Title:       snapshot.Title,
		Description: snapshot.Description,
		Content:     snapshot.Content,
		ContentHTML: snapshot.ContentHTML,
		UpdatedAt:   now,
	}); err != nil {
		return nil, err
	}
	if err := qtx.UpdateTaskFinalContent(ctx, task.ID, finalJSON, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return []string{"/articles/" + live.Slug}, nil
}

func (s *TranslationService) rollbackNamed(ctx context.Context, task model.TranslationTask, snapshot model.TranslationHistory, userID int64) ([]string, error) {
	var (
		path    string
		curName string
		curDesc string
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
		path = "/cities/" + city.Slug
		curName = city.Name(task.TargetLanguage)
		curDesc = city.Description(task.TargetLanguage)
	case model.EntityTypeAnime:
		anime, err := s.queries.GetAnime(ctx, task.EntityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: anime %d", ErrNotFound, task.EntityID)
			}
			return nil, err
		}
		path = "/anime/" + anime.Slug
		curName = anime.Name(task.TargetLanguage)
		curDesc = anime.Description(task.TargetLanguage)
	}

	now := time.Now()
	finalJSON, err := encodeTaskContent(model.TaskContent{
		Name:        snapshot.Title,
		Description: snapshot.Description,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()
	qtx := s.queries.WithTx(tx)

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

	if task.EntityType == model.EntityTypeCity {
		err = qtx.UpdateCityTranslation(ctx, store.UpdateCityTranslationParams{
			ID:          task.EntityID,
			Language:    task.TargetLanguage,
			Name:        snapshot.Title,
			Description: snapshot.Description,
			UpdatedAt:   now,
		})
	} else {
		err = qtx.UpdateAnimeTranslation(ctx, store.UpdateAnimeTranslationParams{
			ID:          task.EntityID,
			Language:    task.TargetLanguage,
			Name:        snapshot.Title,
			Description: snapshot.Description,
			UpdatedAt:   now,
		})
	}
	if err != nil {
		return nil, err
	}

	if err := qtx.UpdateTaskFinalContent(ctx, task.ID, finalJSON, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return []string{path}, nil
}
