// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/pkg/types"
)

func TestParseDraftReply(t *testing.T) {
	reply := `HEADLINE: Launch Day Is Here
SUBJECT: You're invited
BODY:
Join us for the launch. Our platform processes 2M events per second [source: chunk_7].

CTA: Register now at example.com

CLAIMS:
- Our platform processes 2M events per second [source: chunk_7]
- Free tier available [source: chunk_2]`

	draft := parseDraftReply(types.ChannelEmail, reply)

	assert.Equal(t, types.ChannelEmail, draft.Channel)
	assert.Equal(t, "Launch Day Is Here", draft.Headline)
	assert.Equal(t, "You're invited", draft.SubjectLine)
	assert.Equal(t, "Register now at example.com", draft.CTA)
	assert.Contains(t, draft.Body, "2M events per second")
	assert.NotContains(t, draft.Body, "CTA:")

	require.Len(t, draft.Claims, 2)
	assert.Equal(t, "chunk_7", draft.Claims[0].SourceChunkID)
	assert.True(t, draft.Claims[0].IsSupported)
	assert.Equal(t, "chunk_2", draft.Claims[1].SourceChunkID)
}

func TestParseDraftReplyNoMarkers(t *testing.T) {
	reply := "Just some prose the model produced without any structure."
	draft := parseDraftReply(types.ChannelFacebook, reply)

	assert.Equal(t, reply, draft.Body)
	assert.Equal(t, defaultCTA, draft.CTA)
	assert.Empty(t, draft.Headline)
	assert.Empty(t, draft.Claims)
}

func TestParseDraftReplyHeadlineFirstLineOnly(t *testing.T) {
	reply := "HEADLINE: First line\nstray continuation\nBODY:\nbody text\nCTA: Go"
	draft := parseDraftReply(types.ChannelWeb, reply)
	assert.Equal(t, "First line", draft.Headline)
}

func TestAppendInlineCitationsDedupe(t *testing.T) {
	reply := `BODY:
Our platform processes 2M events per second [source: chunk_7]. It also ships daily [source: chunk_3].

CTA: Try it

CLAIMS:
- Our platform processes 2M events per second [source: chunk_7]`

	draft := parseDraftReply(types.ChannelLinkedIn, reply)

	// The first citation is already a listed claim; only the second
	// inline sentence is folded in.
	require.Len(t, draft.Claims, 2)
	assert.Equal(t, "chunk_3", draft.Claims[1].SourceChunkID)
	assert.True(t, draft.Claims[1].IsSupported)
}

func TestParseCriticReply(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		wantBrand  int
		wantCTA    int
		wantPassed bool
	}{
		{
			name: "passing verdict",
			reply: `BRAND_VOICE_SCORE: 8
CTA_CLARITY_SCORE: 9
LENGTH_OK: true

ISSUES:
- none

FIXES:
- none

PASSED: true`,
			wantBrand: 8, wantCTA: 9, wantPassed: true,
		},
		{
			name: "borderline scores fail the gate",
			reply: `BRAND_VOICE_SCORE: 6
CTA_CLARITY_SCORE: 8
LENGTH_OK: true
PASSED: true`,
			wantBrand: 6, wantCTA: 8, wantPassed: false,
		},
		{
			name: "model claims passed but length fails",
			reply: `BRAND_VOICE_SCORE: 9
CTA_CLARITY_SCORE: 9
LENGTH_OK: false
PASSED: true`,
			wantBrand: 9, wantCTA: 9, wantPassed: false,
		},
		{
			name:      "unparseable scores default to zero",
			reply:     "I think the drafts look great overall!",
			wantBrand: 0, wantCTA: 0, wantPassed: false,
		},
		{
			name: "out of range score clamps",
			reply: `BRAND_VOICE_SCORE: 42
CTA_CLARITY_SCORE: 7
LENGTH_OK: true`,
			wantBrand: 10, wantCTA: 7, wantPassed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := parseCriticReply(tt.reply)
			assert.Equal(t, tt.wantBrand, fb.BrandVoiceScore)
			assert.Equal(t, tt.wantCTA, fb.CTAClarityScore)
			assert.Equal(t, tt.wantPassed, fb.Passed)
		})
	}
}

func TestParseCriticReplyIssuesAndFixes(t *testing.T) {
	reply := `BRAND_VOICE_SCORE: 5
CTA_CLARITY_SCORE: 5
LENGTH_OK: true

ISSUES:
- Tone too formal
- CTA buried at the bottom

FIXES:
- Loosen the opening sentence

PASSED: false`

	fb := parseCriticReply(reply)
	assert.Equal(t, []string{"Tone too formal", "CTA buried at the bottom"}, fb.Issues)
	assert.Equal(t, []string{"Loosen the opening sentence"}, fb.Fixes)
}

func TestParseVerifierReply(t *testing.T) {
	known := map[string]bool{"chunk_1": true, "chunk_9": true}

	reply := `CLAIM: The platform processes 2M events per second
SOURCE: chunk_1
SUPPORTED: true

---

CLAIM: Pricing starts at $9 per month
SOURCE: NONE
SUPPORTED: true

---

CLAIM: The event takes place on March 12
SOURCE: user_input
SUPPORTED: true

---

CLAIM: Used by 500 companies worldwide
SOURCE: chunk_404
SUPPORTED: true

---

CLAIM: ok
SOURCE: chunk_1
SUPPORTED: true`

	claims := parseVerifierReply(reply, known)
	require.Len(t, claims, 4)

	assert.Equal(t, "chunk_1", claims[0].SourceChunkID)
	assert.True(t, claims[0].IsSupported)

	// SOURCE: NONE is unsupported regardless of the SUPPORTED flag.
	assert.Empty(t, claims[1].SourceChunkID)
	assert.False(t, claims[1].IsSupported)

	assert.Equal(t, types.UserInputSource, claims[2].SourceChunkID)
	assert.True(t, claims[2].IsSupported)

	// An id that matches no retrieved chunk is recorded but cannot
	// support the claim.
	assert.Equal(t, "chunk_404", claims[3].SourceChunkID)
	assert.False(t, claims[3].IsSupported)
}

func TestParseVerifierReplyQuotedSource(t *testing.T) {
	claims := parseVerifierReply("CLAIM: The date is confirmed for June\nSOURCE: \"user_input\"\nSUPPORTED: true", nil)
	require.Len(t, claims, 1)
	assert.True(t, claims[0].IsSupported)
}

func TestParseVerifierReplyEmpty(t *testing.T) {
	assert.Empty(t, parseVerifierReply("No factual claims found.", nil))
}

func TestStripCitations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "mid sentence marker",
			in:   "We process 2M events [source: chunk_7] every second.",
			want: "We process 2M events every second.",
		},
		{
			name: "marker before period",
			in:   "Free tier available [source: chunk_2].",
			want: "Free tier available",
		},
		{
			name: "multiple markers",
			in:   "Fast [source: a1]. Reliable [source: b2]. Proven.",
			want: "Fast Reliable Proven.",
		},
		{
			name: "no markers unchanged",
			in:   "Plain copy stays plain.",
			want: "Plain copy stays plain.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripCitations(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "  ")
		})
	}
}
