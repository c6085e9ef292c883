// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/animap/animap-go/internal/model"
	"github.com/animap/animap-go/internal/store"
)

// createBatchSize bounds concurrent task-creation writes. Pending
// creations are flushed in windows of this size and awaited together.
const createBatchSize = 25

// BatchCreateResult summarizes one orchestrator run.
type BatchCreateResult struct {
	RunID   string `json:"run_id"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// CreateMissingTasks discovers every (entity, target language) pair of
// the given entity type that is not yet translated and has no task, and
// idempotently creates pending tasks for them. Pairs already covered at
// the live-entity level, or already having a task, count as skipped,
// never as errors.
func (s *TranslationService) CreateMissingTasks(ctx context.Context, entityType string, targetLangs []string) (BatchCreateResult, error) {
	result := BatchCreateResult{RunID: uuid.New().String()}

	if !model.IsEntityType(entityType) {
		return result, fmt.Errorf("%w: unknown entity type %q", ErrValidation, entityType)
	}
	if len(targetLangs) == 0 {
		return result, fmt.Errorf("%w: no target languages", ErrValidation)
	}
	for _, lang := range targetLangs {
		if !model.IsTargetLanguage(lang) {
			return result, fmt.Errorf("%w: unsupported target language %q", ErrValidation, lang)
		}
	}

	pairs, skipped, err := s.discoverPairs(ctx, entityType, targetLangs)
	if err != nil {
		return result, err
	}
	result.Skipped = skipped

	now := time.Now()
	for start := 0; start < len(pairs); start += createBatchSize {
		end := start + createBatchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		created, skippedInWindow, failed := s.createWindow(ctx, pairs[start:end], now)
		result.Created += created
		result.Skipped += skippedInWindow
		result.Failed += failed
	}

	s.logger.Info("batch task creation finished",
		"category", model.EventCategoryTranslation,
		"run_id", result.RunID, "entity_type", entityType,
		"created", result.Created, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// entityLangPair is one candidate task identity.
type entityLangPair struct {
	entityType string
	entityID   int64
	lang       string
}

// discoverPairs enumerates source entities and filters out target
// languages already covered at the live-entity level. Returns the
// remaining candidate pairs and the count of covered ones.
func (s *TranslationService) discoverPairs(ctx context.Context, entityType string, targetLangs []string) ([]entityLangPair, int, error) {
	var pairs []entityLangPair
	skipped := 0

	switch entityType {
	case model.EntityTypeArticle:
		articles, err := s.queries.ListPublishedArticles(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("listing published articles: %w", err)
		}
		for _, article := range articles {
			covered, err := s.queries.ListGroupSiblingLanguages(ctx, article.GroupID(), article.ID)
			if err != nil {
				return nil, 0, fmt.Errorf("listing group languages: %w", err)
			}
			coveredSet := make(map[string]bool, len(covered))
			for _, lang := range covered {
				coveredSet[lang] = true
			}
			for _, lang := range targetLangs {
				if coveredSet[lang] {
					skipped++
					continue
				}
				pairs = append(pairs, entityLangPair{entityType: entityType, entityID: article.ID, lang: lang})
			}
		}

	case model.EntityTypeCity:
		cities, err := s.queries.ListCities(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("listing cities: %w", err)
		}
		for _, city := range cities {
			for _, lang := range targetLangs {
				if city.HasLanguage(lang) {
					skipped++
					continue
				}
				pairs = append(pairs, entityLangPair{entityType: entityType, entityID: city.ID, lang: lang})
			}
		}

	case model.EntityTypeAnime:
		titles, err := s.queries.ListAnime(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("listing anime: %w", err)
		}
		for _, anime := range titles {
			for _, lang := range targetLangs {
				if anime.HasLanguage(lang) {
					skipped++
					continue
				}
				pairs = append(pairs, entityLangPair{entityType: entityType, entityID: anime.ID, lang: lang})
			}
		}
	}

	return pairs, skipped, nil
}

// createWindow upserts one window of tasks concurrently and waits for
// all of them. The unique index makes the upsert idempotent, so a pair
// that raced an earlier run simply reports skipped.
func (s *TranslationService) createWindow(ctx context.Context, window []entityLangPair, now time.Time) (created, skipped, failed int) {
	results := make([]error, len(window))
	createdFlags := make([]bool, len(window))

	var wg sync.WaitGroup
	for i, pair := range window {
		wg.Add(1)
		go func(i int, pair entityLangPair) {
			defer wg.Done()
			_, ok, err := s.queries.CreateTranslationTask(ctx, store.CreateTranslationTaskParams{
				EntityType:     pair.entityType,
				EntityID:       pair.entityID,
				TargetLanguage: pair.lang,
				CreatedAt:      now,
			})
			results[i] = err
			createdFlags[i] = ok
		}(i, pair)
	}
	wg.Wait()

	for i := range window {
		switch {
		case results[i] != nil:
			failed++
			s.logger.Warn("task creation failed",
				"category", model.EventCategoryTranslation,
				"entity_type", window[i].entityType, "entity_id", window[i].entityID,
				"target_language", window[i].lang, "error", results[i])
		case createdFlags[i]:
			created++
		default:
			skipped++
		}
	}
	return created, skipped, failed
}
