// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	"github.com/animap/animap-go/internal/cache"
	"github.com/animap/animap-go/internal/doctree"
	"github.com/animap/animap-go/internal/glossary"
	"github.com/animap/animap-go/internal/model"
	"github.com/animap/animap-go/internal/store"
	"github.com/animap/animap-go/internal/translator"
)

// TranslationService drives the whole pipeline. All dependencies are
// passed in explicitly; there is no package-level state.
type TranslationService struct {
	db          *sql.DB
	queries     *store.Queries
	translator  translator.Translator
	protector   *glossary.Protector
	sanitizer   *bluemonday.Policy
	invalidator *cache.PathInvalidator
	logger      *slog.Logger
}

// NewTranslationService creates a TranslationService. The invalidator may
// be nil when no cache is configured; the protector may be nil when no
// glossary is loaded.
func NewTranslationService(
	db *sql.DB,
	tr translator.Translator,
	protector *glossary.Protector,
	invalidator *cache.PathInvalidator,
	logger *slog.Logger,
) *TranslationService {
	if logger == nil {
		logger = slog.Default()
	}
	if protector == nil {
		protector = glossary.NewProtector(glossary.Glossary{})
	}
	return &TranslationService{
		db:          db,
		queries:     store.New(db),
		translator:  tr,
		protector:   protector,
		sanitizer:   bluemonday.UGCPolicy(),
		invalidator: invalidator,
		logger:      logger,
	}
}

// translateText runs one text through protection, the provider and
// restoration. Provider failures come back wrapped as ErrProvider.
func (s *TranslationService) translateText(ctx context.Context, text, targetLang string) (string, error) {
	if text == "" {
		return "", nil
	}

	protected := s.protector.Protect(text)
	translated, err := s.translator.Translate(ctx, protected.Text, targetLang)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return s.protector.Restore(translated, protected.Terms, targetLang), nil
}

// translateTexts translates a list of texts, deduplicating identical
// inputs so each distinct string hits the provider once.
func (s *TranslationService) translateTexts(ctx context.Context, texts []string, targetLang string) (map[string]string, error) {
	out := make(map[string]string, len(texts))
	for _, text := range texts {
		if _, done := out[text]; done {
			continue
		}
		translated, err := s.translateText(ctx, text, targetLang)
		if err != nil {
			return nil, err
		}
		out[text] = translated
	}
	return out, nil
}

// translateEntity produces the source snapshot and translated draft for a
// task, dispatching on the entity type.
func (s *TranslationService) translateEntity(ctx context.Context, task model.TranslationTask) (source, draft model.TaskContent, err error) {
	switch task.EntityType {
	case model.EntityTypeArticle:
		return s.translateArticle(ctx, task.EntityID, task.TargetLanguage)
	case model.EntityTypeCity:
		city, err := s.queries.GetCity(ctx, task.EntityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return source, draft, fmt.Errorf("%w: city %d", ErrNotFound, task.EntityID)
			}
			return source, draft, err
		}
		srcLang := sourceLanguageFor(task.TargetLanguage)
		return s.translateNamed(ctx, city.Name(srcLang), city.Description(srcLang), task.TargetLanguage)
	case model.EntityTypeAnime:
		anime, err := s.queries.GetAnime(ctx, task.EntityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return source, draft, fmt.Errorf("%w: anime %d", ErrNotFound, task.EntityID)
			}
			return source, draft, err
		}
		srcLang := sourceLanguageFor(task.TargetLanguage)
		return s.translateNamed(ctx, anime.Name(srcLang), anime.Description(srcLang), task.TargetLanguage)
	default:
		return source, draft, fmt.Errorf("%w: unknown entity type %q", ErrValidation, task.EntityType)
	}
}

// translateArticle snapshots the source article and builds a draft with
// the title, description and every document leaf translated. The draft
// document keeps the source tree's structure; only leaf texts change.
func (s *TranslationService) translateArticle(ctx context.Context, articleID int64, targetLang string) (source, draft model.TaskContent, err error) {
	article, err := s.queries.GetArticle(ctx, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return source, draft, fmt.Errorf("%w: article %d", ErrNotFound, articleID)
		}
		return source, draft, err
	}

	tree, err := doctree.Parse([]byte(article.Content))
	if err != nil {
		return source, draft, fmt.Errorf("%w: article %d content: %v", ErrValidation, articleID, err)
	}

	source = model.TaskContent{
		Title:       article.Title,
		Description: article.Description,
		Content:     article.Content,
		ContentHTML: article.ContentHTML,
	}

	texts := append([]string{article.Title, article.Description}, doctree.ExtractLeafTexts(tree)...)
	translations, err := s.translateTexts(ctx, texts, targetLang)
	if err != nil {
		return source, draft, err
	}

	translatedTree := doctree.ReplaceLeafTexts(tree, translations)
	treeJSON, err := json.Marshal(translatedTree)
	if err != nil {
		return source, draft, fmt.Errorf("encoding translated tree: %w", err)
	}

	draft = model.TaskContent{
		Title:       translations[article.Title],
		Description: translations[article.Description],
		Content:     string(treeJSON),
		ContentHTML: s.sanitizer.Sanitize(doctree.RenderHTML(translatedTree)),
	}
	return source, draft, nil
}

// translateNamed handles the columnar entities: one name, one description.
func (s *TranslationService) translateNamed(ctx context.Context, name, description, targetLang string) (source, draft model.TaskContent, err error) {
	source = model.TaskContent{Name: name, Description: description}

	translations, err := s.translateTexts(ctx, []string{name, description}, targetLang)
	if err != nil {
		return source, draft, err
	}

	draft = model.TaskContent{
		Name:        translations[name],
		Description: translations[description],
	}
	return source, draft, nil
}

// sourceLanguageFor picks the language to translate from for columnar
// entities: the other supported language.
func sourceLanguageFor(targetLang string) string {
	if targetLang == model.LangEN {
		return model.LangJA
	}
	return model.LangEN
}

// decodeTaskContent parses a stored task payload.
func decodeTaskContent(data string) (model.TaskContent, error) {
	var c model.TaskContent
	if data == "" {
		return c, fmt.Errorf("%w: empty task content", ErrValidation)
	}
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return c, fmt.Errorf("%w: task content: %v", ErrValidation, err)
	}
	return c, nil
}

// encodeTaskContent serializes a task payload for storage.
func encodeTaskContent(c model.TaskContent) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding task content: %w", err)
	}
	return string(data), nil
}
