// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"github.com/pdiddy/content-engine/pkg/types"
)

// export assembles the final content bundle: per-channel content with
// clean-copy renderings, the scorecard from the last critic verdict,
// the flattened claims table, images, and the full audit section. The
// stage is terminal; only the run id and timestamp differ between
// exports of the same state.
func (p *Pipeline) export(st *State) Patch {
	content := make(map[types.Channel]types.ChannelContent, len(st.Drafts))
	var claimsTable []types.ClaimRow

	for _, channel := range st.Channels {
		draft, ok := st.Drafts[channel]
		if !ok {
			continue
		}

		content[channel] = types.ChannelContent{
			Headline:    draft.Headline,
			SubjectLine: draft.SubjectLine,
			Body:        draft.Body,
			CTA:         draft.CTA,
			CleanBody:   StripCitations(draft.Body),
			CleanCTA:    StripCitations(draft.CTA),
		}

		for _, claim := range draft.Claims {
			claimsTable = append(claimsTable, types.ClaimRow{
				Channel:     channel,
				Claim:       claim.Text,
				Source:      claim.SourceChunkID,
				IsSupported: claim.IsSupported,
			})
		}
	}

	scorecard := types.Scorecard{
		Iterations: st.Iteration,
	}
	if st.CriticFeedback != nil {
		brand, cta := st.CriticFeedback.BrandVoiceScore, st.CriticFeedback.CTAClarityScore
		scorecard.BrandVoiceScore = &brand
		scorecard.CTAClarityScore = &cta
		scorecard.Passed = st.CriticFeedback.Passed
	}

	// Snapshot the log as it stands; the export entry below records the
	// stage itself and is not part of the exported trail.
	auditLog := make([]types.AuditEntry, len(st.AuditLog))
	copy(auditLog, st.AuditLog)

	final := &types.FinalOutput{
		Content:      content,
		Images:       st.Images,
		RelevantURLs: st.RelevantURLs,
		Scorecard:    scorecard,
		ClaimsTable:  claimsTable,
		Audit: types.AuditSection{
			RunID:     p.runIDValue(),
			Timestamp: p.timestamp(),
			Input: types.InputSnapshot{
				EventTitle:       st.EventTitle,
				EventDescription: st.EventDescription,
				EventDate:        st.EventDate,
				TargetAudience:   st.TargetAudience,
				KeyMessages:      st.KeyMessages,
				Channels:         st.Channels,
				RelevantURLs:     st.RelevantURLs,
			},
			SourcesRetrieved: types.RetrievalCounts{
				BrandChunks:   len(st.BrandChunks),
				ProductChunks: len(st.ProductChunks),
			},
			Iterations: auditLog,
		},
	}

	return Patch{
		FinalOutput: final,
		AuditEntries: []types.AuditEntry{p.auditEntry("export", "exported_final_output", map[string]any{
			"channels_exported": channelNames(st.Channels),
			"total_claims":      len(claimsTable),
		})},
	}
}
