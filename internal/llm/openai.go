// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/content-engine/pkg/types"
)

// OpenAIBackend implements Backend using the official openai-go SDK
// (chat completions).
type OpenAIBackend struct {
	Model string
	Opts  []option.RequestOption
}

// NewOpenAIBackend builds a backend from completion config.
func NewOpenAIBackend(cfg types.AIConfig) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide completion.api_key or .secrets/openai-api-key")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIBackend{Model: model, Opts: opts}, nil
}

// Complete issues one chat completion with a single user message.
func (o *OpenAIBackend) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	client := openai.NewClient(o.Opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
