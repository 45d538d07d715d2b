// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/content-engine/pkg/types"
)

func passingFeedback() *types.CriticFeedback {
	return &types.CriticFeedback{BrandVoiceScore: 8, CTAClarityScore: 8, LengthOK: true, Passed: true}
}

func failingFeedback() *types.CriticFeedback {
	return &types.CriticFeedback{BrandVoiceScore: 6, CTAClarityScore: 8, LengthOK: true, Passed: false}
}

func draftsWithClaim(supported bool) map[types.Channel]types.ChannelDraft {
	return map[types.Channel]types.ChannelDraft{
		types.ChannelLinkedIn: {
			Channel: types.ChannelLinkedIn,
			Body:    "body",
			Claims: []types.Claim{
				{Text: "a factual claim", SourceChunkID: "chunk_1", IsSupported: supported},
			},
		},
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		st   *State
		want decision
	}{
		{
			name: "all signals good finalizes",
			st: &State{
				Iteration:      1,
				CriticFeedback: passingFeedback(),
				Drafts:         draftsWithClaim(true),
			},
			want: decisionFinalize,
		},
		{
			name: "critic failure retries",
			st: &State{
				Iteration:      1,
				CriticFeedback: failingFeedback(),
				Drafts:         draftsWithClaim(true),
			},
			want: decisionRetry,
		},
		{
			name: "unsupported claim retries even when critic passed",
			st: &State{
				Iteration:      1,
				CriticFeedback: passingFeedback(),
				Drafts:         draftsWithClaim(false),
			},
			want: decisionRetry,
		},
		{
			name: "iteration cap overrides failing signals",
			st: &State{
				Iteration:      maxIterations,
				CriticFeedback: failingFeedback(),
				Drafts:         draftsWithClaim(false),
			},
			want: decisionFinalize,
		},
		{
			name: "no critic verdict and no claims finalizes",
			st: &State{
				Iteration: 1,
				Drafts: map[types.Channel]types.ChannelDraft{
					types.ChannelWeb: {Channel: types.ChannelWeb, Body: "body"},
				},
			},
			want: decisionFinalize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decide(tt.st))
		})
	}
}

func TestDecideTerminatesWithinCap(t *testing.T) {
	// A run whose signals never pass still finalizes once the drafter
	// has executed maxIterations times.
	st := &State{CriticFeedback: failingFeedback(), Drafts: draftsWithClaim(false)}

	cycles := 0
	for {
		st.Iteration++
		cycles++
		if decide(st) == decisionFinalize {
			break
		}
	}
	assert.Equal(t, maxIterations, cycles)
}
