// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

const criticMaxTokens = 1500

// critic evaluates the whole draft batch against the quality rubric in
// a single completion call. The rubric is global, not per channel. The
// parser derives the pass verdict from the parsed scores, so an
// inconsistent reply fails closed rather than slipping through.
func (p *Pipeline) critic(ctx context.Context, st *State) (Patch, error) {
	prompt, err := criticPrompt(st)
	if err != nil {
		return Patch{}, err
	}

	reply, err := llm.CompleteWithRetry(ctx, p.Completion, prompt, criticMaxTokens, p.Config.Completion.MaxRetries)
	if err != nil {
		return Patch{}, fmt.Errorf("evaluating drafts: %w", err)
	}

	feedback := parseCriticReply(reply)

	p.logger().Info("evaluated drafts",
		zap.Int("brand_voice_score", feedback.BrandVoiceScore),
		zap.Int("cta_clarity_score", feedback.CTAClarityScore),
		zap.Bool("passed", feedback.Passed))

	return Patch{
		CriticFeedback: &feedback,
		AuditEntries: []types.AuditEntry{p.auditEntry("critic", "evaluated_drafts", map[string]any{
			"brand_voice_score": feedback.BrandVoiceScore,
			"cta_clarity_score": feedback.CTAClarityScore,
			"passed":            feedback.Passed,
			"issues_count":      len(feedback.Issues),
		})},
	}, nil
}
