// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/content-engine/pkg/types"
)

// defaultCTA fills in when a reply carries no CTA marker.
const defaultCTA = "Learn more"

// minClaimLength filters out noise: claim texts this short or shorter
// are discarded by the verifier parser.
const minClaimLength = 5

// Section-marker patterns for drafter replies. Completion output is
// free-form; every extraction is bounded by the next marker or end of
// text and degrades to a default instead of failing.
var (
	headlineRe = regexp.MustCompile(`(?is)HEADLINE:\s*(.+?)(?:\n(?:SUBJECT|BODY|CTA|CLAIMS):|\z)`)
	subjectRe  = regexp.MustCompile(`(?is)SUBJECT:\s*(.+?)(?:\n(?:BODY|CTA|CLAIMS):|\z)`)
	bodyRe     = regexp.MustCompile(`(?is)BODY:\s*(.+?)(?:\nCTA:|\nCLAIMS:|\z)`)
	ctaRe      = regexp.MustCompile(`(?is)\bCTA:\s*(.+?)(?:\nCLAIMS:|\z)`)
	claimsRe   = regexp.MustCompile(`(?is)CLAIMS:\s*(.+)\z`)
)

// Citation markers: [source: chunk_id].
var (
	sourceMarkerRe = regexp.MustCompile(`(?i)\[source:\s*(\w+)\]`)
	inlineClaimRe  = regexp.MustCompile(`(?i)[^.!?\n]*\[source:\s*\w+\][^.!?\n]*[.!?]?`)
	stripMarkerRe  = regexp.MustCompile(`(?i)\s*\[source:\s*\w+\]\.?`)
	multiSpaceRe   = regexp.MustCompile(`  +`)
)

// Critic reply patterns.
var (
	brandScoreRe = regexp.MustCompile(`(?i)BRAND_VOICE_SCORE:\s*(\d+)`)
	ctaScoreRe   = regexp.MustCompile(`(?i)CTA_CLARITY_SCORE:\s*(\d+)`)
	lengthOKRe   = regexp.MustCompile(`(?i)LENGTH_OK:\s*(true|false)`)
	issuesRe     = regexp.MustCompile(`(?is)ISSUES:\s*(.+?)(?:\nFIXES:|\nPASSED:|\z)`)
	fixesRe      = regexp.MustCompile(`(?is)FIXES:\s*(.+?)(?:\nPASSED:|\z)`)
)

// Verifier reply patterns.
var (
	claimBlockRe  = regexp.MustCompile(`(?im)^CLAIM:`)
	claimTextRe   = regexp.MustCompile(`(?i)CLAIM:[ \t]*([^\n]+)`)
	claimSourceRe = regexp.MustCompile(`(?i)SOURCE:\s*(\S+)`)
	supportedRe   = regexp.MustCompile(`(?i)SUPPORTED:\s*(true|false)`)
)

// parseDraftReply recovers a ChannelDraft from free-form completion
// output. A reply without a BODY marker becomes the body wholesale; a
// missing CTA defaults. This function never fails.
func parseDraftReply(channel types.Channel, reply string) types.ChannelDraft {
	draft := types.ChannelDraft{
		Channel: channel,
		CTA:     defaultCTA,
	}

	if m := headlineRe.FindStringSubmatch(reply); m != nil {
		draft.Headline = firstLine(m[1])
	}
	if m := subjectRe.FindStringSubmatch(reply); m != nil {
		draft.SubjectLine = firstLine(m[1])
	}
	if m := bodyRe.FindStringSubmatch(reply); m != nil {
		draft.Body = strings.TrimSpace(m[1])
	} else {
		draft.Body = reply
	}
	if m := ctaRe.FindStringSubmatch(reply); m != nil {
		draft.CTA = firstLine(m[1])
	}

	draft.Claims = parseClaimLines(reply)
	draft.Claims = appendInlineCitations(draft.Claims, draft.Body)
	return draft
}

// parseClaimLines reads the CLAIMS: section, one claim per bullet line,
// with an optional [source: id] marker.
func parseClaimLines(reply string) []types.Claim {
	m := claimsRe.FindStringSubmatch(reply)
	if m == nil {
		return nil
	}

	var claims []types.Claim
	for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "- ")
		if line == "" {
			continue
		}

		sourceID := ""
		if sm := sourceMarkerRe.FindStringSubmatch(line); sm != nil {
			sourceID = sm[1]
		}
		text := strings.TrimSpace(stripMarkerRe.ReplaceAllString(line, ""))
		if text == "" {
			continue
		}
		claims = append(claims, types.Claim{
			Text:          text,
			SourceChunkID: sourceID,
			IsSupported:   sourceID != "",
		})
	}
	return claims
}

// appendInlineCitations re-scans the body for [source: id] markers and
// folds the surrounding sentences into the claims list, de-duplicated
// case-insensitively against claims already present.
func appendInlineCitations(claims []types.Claim, body string) []types.Claim {
	seen := make(map[string]bool, len(claims))
	for _, c := range claims {
		seen[strings.ToLower(c.Text)] = true
	}

	for _, sentence := range inlineClaimRe.FindAllString(body, -1) {
		sm := sourceMarkerRe.FindStringSubmatch(sentence)
		if sm == nil {
			continue
		}
		text := strings.TrimSpace(stripMarkerRe.ReplaceAllString(sentence, ""))
		text = strings.Trim(text, ".,!? ")
		if text == "" || seen[strings.ToLower(text)] {
			continue
		}
		seen[strings.ToLower(text)] = true
		claims = append(claims, types.Claim{
			Text:          text,
			SourceChunkID: sm[1],
			IsSupported:   true,
		})
	}
	return claims
}

// parseCriticReply recovers CriticFeedback from free-form output. The
// pass verdict is derived from the parsed scores and length flag; a
// PASSED: line in the reply is ignored. A score that cannot be parsed
// defaults to 0, which fails the gate and triggers a retry.
func parseCriticReply(reply string) types.CriticFeedback {
	fb := types.CriticFeedback{
		BrandVoiceScore: parseScore(brandScoreRe, reply),
		CTAClarityScore: parseScore(ctaScoreRe, reply),
	}
	if m := lengthOKRe.FindStringSubmatch(reply); m != nil {
		fb.LengthOK = strings.EqualFold(m[1], "true")
	}
	if m := issuesRe.FindStringSubmatch(reply); m != nil {
		fb.Issues = parseBullets(m[1])
	}
	if m := fixesRe.FindStringSubmatch(reply); m != nil {
		fb.Fixes = parseBullets(m[1])
	}
	fb.Passed = fb.BrandVoiceScore >= 7 && fb.CTAClarityScore >= 7 && fb.LengthOK
	return fb
}

func parseScore(re *regexp.Regexp, reply string) int {
	m := re.FindStringSubmatch(reply)
	if m == nil {
		return 0
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func parseBullets(block string) []string {
	var items []string
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "- "))
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// parseVerifierReply splits the reply into CLAIM blocks and classifies
// each claim's support. A claim is supported iff its source names a
// known chunk id or the "user_input" sentinel; the model's own
// SUPPORTED flag is not trusted. SOURCE: NONE (or a missing source) is
// always unsupported. Claim texts of 5 characters or fewer are noise
// and dropped.
func parseVerifierReply(reply string, knownChunkIDs map[string]bool) []types.Claim {
	starts := claimBlockRe.FindAllStringIndex(reply, -1)
	var claims []types.Claim

	for i, start := range starts {
		end := len(reply)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		block := reply[start[0]:end]

		tm := claimTextRe.FindStringSubmatch(block)
		if tm == nil {
			continue
		}
		text := strings.TrimSpace(tm[1])
		if len(text) <= minClaimLength {
			continue
		}

		sourceID := ""
		if sm := claimSourceRe.FindStringSubmatch(block); sm != nil {
			sourceID = strings.Trim(sm[1], `"'`)
		}

		claim := types.Claim{Text: text}
		switch {
		case strings.EqualFold(sourceID, "NONE") || sourceID == "":
			// The model named no source; its SUPPORTED line is overridden.
		case strings.EqualFold(sourceID, types.UserInputSource):
			claim.SourceChunkID = types.UserInputSource
			claim.IsSupported = true
		case knownChunkIDs[sourceID]:
			claim.SourceChunkID = sourceID
			claim.IsSupported = true
		default:
			// A source id that matches no retrieved chunk is recorded but
			// cannot support the claim.
			claim.SourceChunkID = sourceID
		}
		claims = append(claims, claim)
	}
	return claims
}

// StripCitations removes [source: chunk_id] markers from text for clean
// copy, collapsing the double spaces the removal would leave behind.
func StripCitations(text string) string {
	cleaned := stripMarkerRe.ReplaceAllString(text, "")
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
