// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

const drafterMaxTokens = 2000

// draft generates one ChannelDraft per requested channel, in the
// user-specified order. Channels are independent: each gets its own
// prompt and completion call. On repeat iterations the previous critic
// verdict is folded into every prompt. Malformed replies degrade to
// defaults inside the parser; only the completion call itself can fail
// the stage.
func (p *Pipeline) draft(ctx context.Context, st *State) (Patch, error) {
	iteration := st.Iteration + 1

	feedback := ""
	if st.CriticFeedback != nil && iteration > 1 {
		feedback = renderFeedback(st.CriticFeedback)
	}

	drafts := make(map[types.Channel]types.ChannelDraft, len(st.Channels))
	for _, channel := range st.Channels {
		prompt, err := drafterPrompt(st, channel, feedback)
		if err != nil {
			return Patch{}, err
		}

		reply, err := llm.CompleteWithRetry(ctx, p.Completion, prompt, drafterMaxTokens, p.Config.Completion.MaxRetries)
		if err != nil {
			return Patch{}, fmt.Errorf("drafting %s content: %w", channel, err)
		}

		drafts[channel] = parseDraftReply(channel, reply)
	}

	p.logger().Info("generated drafts",
		zap.Int("iteration", iteration),
		zap.Int("channels", len(drafts)),
		zap.Bool("had_feedback", feedback != ""))

	return Patch{
		Drafts:         drafts,
		IterationDelta: 1,
		AuditEntries: []types.AuditEntry{p.auditEntry("draft", "generated_drafts", map[string]any{
			"iteration":    iteration,
			"channels":     channelNames(st.Channels),
			"had_feedback": feedback != "",
		})},
	}, nil
}

func channelNames(channels []types.Channel) []string {
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = string(ch)
	}
	return names
}
