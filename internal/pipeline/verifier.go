// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

const verifierMaxTokens = 1500

// verify extracts factual claims from every draft body and classifies
// each claim's support: a retrieved chunk id, the "user_input" sentinel,
// or unsupported. One completion call per channel. The drafter's own
// citation guesses are superseded: each draft's claims list is replaced
// wholesale with the verified set.
func (p *Pipeline) verify(ctx context.Context, st *State) (Patch, error) {
	knownIDs := st.knownChunkIDs()

	verified := make(map[types.Channel]types.ChannelDraft, len(st.Drafts))
	for _, channel := range st.Channels {
		draft, ok := st.Drafts[channel]
		if !ok {
			continue
		}

		prompt, err := verifierPrompt(st, draft.Body)
		if err != nil {
			return Patch{}, err
		}

		reply, err := llm.CompleteWithRetry(ctx, p.Completion, prompt, verifierMaxTokens, p.Config.Completion.MaxRetries)
		if err != nil {
			return Patch{}, fmt.Errorf("verifying %s claims: %w", channel, err)
		}

		draft.Claims = parseVerifierReply(reply, knownIDs)
		verified[channel] = draft
	}

	// Recompute totals from the verified drafts for the audit entry.
	snapshot := &State{Channels: st.Channels, Drafts: verified}
	unsupported := snapshot.unsupportedClaims()

	p.logger().Info("verified claims",
		zap.Int("total_claims", snapshot.totalClaims()),
		zap.Int("unsupported_claims", len(unsupported)))

	return Patch{
		Drafts: verified,
		AuditEntries: []types.AuditEntry{p.auditEntry("verify", "verified_claims", map[string]any{
			"total_claims":        snapshot.totalClaims(),
			"unsupported_claims":  len(unsupported),
			"unsupported_details": unsupported,
		})},
	}, nil
}
