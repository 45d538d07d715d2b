// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagegen generates marketing images via the Gemini API. Image
// generation is best-effort throughout: callers treat per-call failures
// as non-fatal. See docs/ARCHITECTURE § Image Service.
package imagegen

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/content-engine/pkg/types"
)

const defaultModel = "gemini-2.5-flash-image"

// Generator produces one image per prompt. Implementations return the
// raw image bytes.
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// GenAIGenerator implements Generator using Google's Gemini API.
type GenAIGenerator struct {
	client *genai.Client
	model  string
}

// NewGenAIGenerator creates a Gemini-backed image generator.
func NewGenAIGenerator(ctx context.Context, cfg types.ImageConfig) (*GenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &GenAIGenerator{client: client, model: model}, nil
}

// Generate asks the model for an image and returns the first inline-data
// part of the response.
func (g *GenAIGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("genai generate failed: %w", err)
	}

	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, fmt.Errorf("no image data in response")
}
