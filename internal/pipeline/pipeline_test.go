// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/internal/chunkstore"
	"github.com/pdiddy/content-engine/pkg/types"
)

// scriptedBackend routes completion calls by prompt role and counts
// them. Replies are indexed per role so tests can script an arc across
// iterations.
type scriptedBackend struct {
	draftReplies  []string
	criticReplies []string
	verifyReplies []string
	draftCalls    int
	criticCalls   int
	verifyCalls   int
}

func (b *scriptedBackend) Complete(_ context.Context, prompt string, _ int) (string, error) {
	pick := func(replies []string, call int) string {
		if call < len(replies) {
			return replies[call]
		}
		return replies[len(replies)-1]
	}

	switch {
	case strings.Contains(prompt, "expert marketing content critic"):
		b.criticCalls++
		return pick(b.criticReplies, b.criticCalls-1), nil
	case strings.Contains(prompt, "You are a fact-checker"):
		b.verifyCalls++
		return pick(b.verifyReplies, b.verifyCalls-1), nil
	default:
		b.draftCalls++
		return pick(b.draftReplies, b.draftCalls-1), nil
	}
}

// fallbackSearcher mimics an empty index: every query degrades to the
// built-in fallback chunks.
type fallbackSearcher struct{}

func (fallbackSearcher) Search(_ context.Context, _, collection string, _ int) []types.SourceChunk {
	return chunkstore.FallbackChunks(collection)
}

const passingDraft = `HEADLINE: Launch Summit
BODY:
Join us at the summit. We help teams create content [source: fallback_product_1].

CTA: Register now

CLAIMS:
- We help teams create content [source: fallback_product_1]`

const passingCritic = `BRAND_VOICE_SCORE: 8
CTA_CLARITY_SCORE: 9
LENGTH_OK: true
PASSED: true`

const failingCritic = `BRAND_VOICE_SCORE: 5
CTA_CLARITY_SCORE: 6
LENGTH_OK: true

ISSUES:
- Too generic

FIXES:
- Sharpen the hook

PASSED: false`

const passingVerify = `CLAIM: We help teams create content
SOURCE: fallback_product_1
SUPPORTED: true`

const unsupportedVerify = `CLAIM: Trusted by thousands of companies
SOURCE: NONE
SUPPORTED: false`

func testRequest(progress Progress) Request {
	return Request{
		EventTitle:       "Launch Summit",
		EventDescription: "Annual product launch event",
		TargetAudience:   "Engineering leaders",
		KeyMessages:      []string{"New platform", "Live demos"},
		Channels:         []types.Channel{types.ChannelLinkedIn},
		Progress:         progress,
	}
}

func TestRunSinglePass(t *testing.T) {
	backend := &scriptedBackend{
		draftReplies:  []string{passingDraft},
		criticReplies: []string{passingCritic},
		verifyReplies: []string{passingVerify},
	}
	p := New(backend, fallbackSearcher{}, nil, types.PipelineConfig{}, nil)

	out, err := p.Run(context.Background(), testRequest(nil))
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, 1, backend.draftCalls)
	assert.Equal(t, 1, out.Scorecard.Iterations)
	assert.True(t, out.Scorecard.Passed)

	li := out.Content[types.ChannelLinkedIn]
	assert.Equal(t, "Launch Summit", li.Headline)
	assert.NotContains(t, li.CleanBody, "[source:")

	// The empty index degraded to fallback chunks; the run still
	// completed and recorded the retrieval.
	assert.Equal(t, 2, out.Audit.SourcesRetrieved.BrandChunks)
	assert.Equal(t, 1, out.Audit.SourcesRetrieved.ProductChunks)

	require.Len(t, out.ClaimsTable, 1)
	assert.True(t, out.ClaimsTable[0].IsSupported)
	assert.Equal(t, "fallback_product_1", out.ClaimsTable[0].Source)
}

func TestRunRetriesOnCriticFailure(t *testing.T) {
	backend := &scriptedBackend{
		draftReplies:  []string{passingDraft},
		criticReplies: []string{failingCritic, passingCritic},
		verifyReplies: []string{passingVerify},
	}
	p := New(backend, fallbackSearcher{}, nil, types.PipelineConfig{}, nil)

	out, err := p.Run(context.Background(), testRequest(nil))
	require.NoError(t, err)

	assert.Equal(t, 2, backend.draftCalls)
	assert.Equal(t, 2, out.Scorecard.Iterations)
	assert.True(t, out.Scorecard.Passed)
}

func TestRunRetriesOnUnsupportedClaim(t *testing.T) {
	backend := &scriptedBackend{
		draftReplies:  []string{passingDraft},
		criticReplies: []string{passingCritic},
		verifyReplies: []string{unsupportedVerify, passingVerify},
	}
	p := New(backend, fallbackSearcher{}, nil, types.PipelineConfig{}, nil)

	out, err := p.Run(context.Background(), testRequest(nil))
	require.NoError(t, err)

	assert.Equal(t, 2, backend.draftCalls)
	assert.True(t, out.Scorecard.Passed)
}

func TestRunStopsAtIterationCap(t *testing.T) {
	backend := &scriptedBackend{
		draftReplies:  []string{passingDraft},
		criticReplies: []string{failingCritic},
		verifyReplies: []string{passingVerify},
	}
	p := New(backend, fallbackSearcher{}, nil, types.PipelineConfig{}, nil)

	out, err := p.Run(context.Background(), testRequest(nil))
	require.NoError(t, err)

	// A verdict that never passes still exports after the cap.
	assert.Equal(t, maxIterations, backend.draftCalls)
	assert.Equal(t, maxIterations, out.Scorecard.Iterations)
	assert.False(t, out.Scorecard.Passed)
}

func TestRunSkipsImagesWithoutGenerator(t *testing.T) {
	backend := &scriptedBackend{
		draftReplies:  []string{passingDraft},
		criticReplies: []string{passingCritic},
		verifyReplies: []string{passingVerify},
	}
	p := New(backend, fallbackSearcher{}, nil, types.PipelineConfig{}, nil)

	out, err := p.Run(context.Background(), testRequest(nil))
	require.NoError(t, err)
	assert.Empty(t, out.Images)

	var skip *types.AuditEntry
	for i := range out.Audit.Iterations {
		if out.Audit.Iterations[i].Node == "generate_images" {
			skip = &out.Audit.Iterations[i]
		}
	}
	require.NotNil(t, skip)
	assert.Equal(t, "skipped", skip.Action)
}

func TestRunEmitsOrderedProgress(t *testing.T) {
	var steps []string
	progress := func(step string, _ StepInfo, _ int) {
		steps = append(steps, step)
	}

	backend := &scriptedBackend{
		draftReplies:  []string{passingDraft},
		criticReplies: []string{passingCritic},
		verifyReplies: []string{passingVerify},
	}
	p := New(backend, fallbackSearcher{}, nil, types.PipelineConfig{}, nil)

	_, err := p.Run(context.Background(), testRequest(progress))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"retrieve", "retrieve_done",
		"draft", "draft_done",
		"critic", "critic_done",
		"verify", "verify_done",
		"generate_images", "generate_images_done",
		"export", "export_done",
	}, steps)
}

func TestRunValidatesRequest(t *testing.T) {
	p := New(&scriptedBackend{}, fallbackSearcher{}, nil, types.PipelineConfig{}, nil)

	_, err := p.Run(context.Background(), Request{Channels: []types.Channel{types.ChannelWeb}})
	assert.Error(t, err)

	_, err = p.Run(context.Background(), Request{EventTitle: "Event"})
	assert.Error(t, err)

	_, err = p.Run(context.Background(), Request{
		EventTitle: "Event",
		Channels:   []types.Channel{"tiktok"},
	})
	assert.Error(t, err)
}

func TestRunAuditLogGrowsPerStage(t *testing.T) {
	backend := &scriptedBackend{
		draftReplies:  []string{passingDraft},
		criticReplies: []string{passingCritic},
		verifyReplies: []string{passingVerify},
	}
	p := New(backend, fallbackSearcher{}, nil, types.PipelineConfig{}, nil)

	out, err := p.Run(context.Background(), testRequest(nil))
	require.NoError(t, err)

	// retrieve, draft, critic, verify, generate_images. The export
	// entry is appended after the trail snapshot.
	nodes := make([]string, len(out.Audit.Iterations))
	for i, e := range out.Audit.Iterations {
		nodes[i] = e.Node
	}
	assert.Equal(t, []string{"retrieve", "draft", "critic", "verify", "generate_images"}, nodes)
}
