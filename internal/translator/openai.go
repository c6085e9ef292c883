// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"golang.org/x/time/rate"
)

const systemPromptFormat = "You are a professional translator for a travel and anime content site. " +
	"Translate the user's text into %s. " +
	"Keep any [[TERMn]] placeholder tokens exactly as they appear. " +
	"Preserve leading and trailing whitespace. " +
	"Reply with the translation only, no commentary."

// OpenAIOptions configures the OpenAI-backed translator.
type OpenAIOptions struct {
	APIKey string
	Model  string
	// RequestsPerSecond bounds calls to the provider. Zero disables
	// limiting.
	RequestsPerSecond float64
}

// OpenAITranslator implements Translator with an OpenAI chat completion.
type OpenAITranslator struct {
	client  openai.Client
	model   openai.ChatModel
	limiter *rate.Limiter
}

// NewOpenAITranslator creates a translator backed by the OpenAI API.
func NewOpenAITranslator(opts OpenAIOptions) (*OpenAITranslator, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	model := opts.Model
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &OpenAITranslator{
		client:  openai.NewClient(option.WithAPIKey(opts.APIKey)),
		model:   openai.ChatModel(model),
		limiter: limiter,
	}, nil
}

// Translate translates text into targetLang with a single chat completion.
func (t *OpenAITranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	// Blank and whitespace-only leaves round-trip without a provider call.
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	completion, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: t.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(systemPromptFormat, LanguageName(targetLang))),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai translate: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai translate: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}
