// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/content-engine/pkg/types"
)

// drafterPromptTmpl instructs the model to write channel content with
// inline [source: chunk_id] citations and the fixed section markers the
// parser recovers.
var drafterPromptTmpl = template.Must(template.New("drafter").Parse(`You are an expert marketing content writer. Generate {{.Channel}} content for an event promotion.

## Event Details
- **Title:** {{.EventTitle}}
- **Description:** {{.EventDescription}}
- **Date:** {{.EventDate}}
- **Target Audience:** {{.TargetAudience}}

## Key Messages to Convey
{{.KeyMessages}}

## Channel Requirements ({{.ChannelUpper}})
{{.ChannelInstructions}}

## Brand Voice Examples (match this tone and style)
{{.BrandContext}}

## Product/Company Context (use for factual claims)
{{.ProductContext}}

## Relevant URLs (include naturally in CTAs and body where appropriate)
{{.URLs}}
{{.Feedback}}
## Instructions
1. Write compelling {{.Channel}} content that promotes this event
2. Match the brand voice from the examples above
3. Include a clear call-to-action
4. For ANY factual claim you make, note which source chunk it comes from using [source: chunk_id] format
5. If you cannot cite a source for a claim, do not make that claim
6. Stay within the character/word limits for this channel

## Output Format
Provide your response in this exact format:

HEADLINE: (if applicable for this channel)
SUBJECT: (for email only)
BODY:
[Your main content here with [source: chunk_id] citations for factual claims]

CTA: [Your call-to-action]

CLAIMS:
- Claim 1 [source: chunk_id]
- Claim 2 [source: chunk_id]
(List all factual claims with their sources)
`))

type drafterPromptData struct {
	Channel             types.Channel
	ChannelUpper        string
	EventTitle          string
	EventDescription    string
	EventDate           string
	TargetAudience      string
	KeyMessages         string
	ChannelInstructions string
	BrandContext        string
	ProductContext      string
	URLs                string
	Feedback            string
}

func drafterPrompt(st *State, channel types.Channel, feedback string) (string, error) {
	date := st.EventDate
	if date == "" {
		date = "TBD"
	}

	data := drafterPromptData{
		Channel:             channel,
		ChannelUpper:        strings.ToUpper(string(channel)),
		EventTitle:          st.EventTitle,
		EventDescription:    st.EventDescription,
		EventDate:           date,
		TargetAudience:      st.TargetAudience,
		KeyMessages:         renderBullets(st.KeyMessages),
		ChannelInstructions: channelInstructions(channel),
		BrandContext:        orDefault(renderChunks(st.BrandChunks), "No brand examples available - use professional marketing tone."),
		ProductContext:      orDefault(renderChunks(st.ProductChunks), "No product context available."),
		URLs:                orDefault(renderURLs(st.RelevantURLs), "No URLs provided - use generic CTA language."),
		Feedback:            feedback,
	}
	return render(drafterPromptTmpl, data)
}

// channelInstructions renders the rule table entry for one channel.
func channelInstructions(channel types.Channel) string {
	rules, ok := types.ChannelConfigs[channel]
	if !ok {
		return "Follow standard marketing best practices."
	}

	var b strings.Builder
	switch channel {
	case types.ChannelLinkedIn:
		fmt.Fprintf(&b, "- Maximum %d characters\n", rules.MaxLength)
		fmt.Fprintf(&b, "- Tone: %s\n", rules.Tone)
		fmt.Fprintf(&b, "- Required elements: %s\n", strings.Join(rules.RequiredElements, ", "))
		b.WriteString("- Use 1-2 relevant hashtags at the end\n")
		b.WriteString("- Open with a hook that grabs attention\n")
		b.WriteString("- Include clear value proposition")
	case types.ChannelFacebook:
		fmt.Fprintf(&b, "- Maximum %d characters\n", rules.MaxLength)
		fmt.Fprintf(&b, "- Tone: %s\n", rules.Tone)
		fmt.Fprintf(&b, "- Required elements: %s\n", strings.Join(rules.RequiredElements, ", "))
		b.WriteString("- Keep it short and punchy\n")
		b.WriteString("- Use conversational language")
	case types.ChannelEmail:
		fmt.Fprintf(&b, "- Subject line: Maximum %d characters\n", rules.SubjectMaxLength)
		fmt.Fprintf(&b, "- Body: Maximum %d words\n", rules.BodyMaxWords)
		fmt.Fprintf(&b, "- Tone: %s\n", rules.Tone)
		fmt.Fprintf(&b, "- Required elements: %s\n", strings.Join(rules.RequiredElements, ", "))
		b.WriteString("- Write a compelling subject line\n")
		b.WriteString("- Keep paragraphs short (2-3 sentences)")
	case types.ChannelWeb:
		fmt.Fprintf(&b, "- Headline: Maximum %d words\n", rules.HeadlineMaxWords)
		fmt.Fprintf(&b, "- Hero paragraph: Maximum %d words\n", rules.HeroMaxWords)
		fmt.Fprintf(&b, "- Tone: %s\n", rules.Tone)
		fmt.Fprintf(&b, "- Required elements: %s\n", strings.Join(rules.RequiredElements, ", "))
		b.WriteString("- Focus on benefits, not features\n")
		b.WriteString("- Use action-oriented language")
	}
	return b.String()
}

// criticPromptTmpl asks for a global rubric score over all drafts. The
// parser derives the pass verdict itself; the PASSED line is requested
// only to keep the model's reasoning honest.
var criticPromptTmpl = template.Must(template.New("critic").Parse(`You are an expert marketing content critic. Evaluate the following drafts against quality criteria.

## Brand Voice Examples (the standard to match)
{{.BrandContext}}

## Drafts to Evaluate
{{.Drafts}}

## Evaluation Criteria

### Brand Voice Score (0-10)
- 0-3: Generic, off-brand, sounds like generic AI
- 4-6: Partially aligned with brand voice
- 7-10: Matches brand voice examples well

### CTA Clarity Score (0-10)
- 0-3: CTA missing, buried, or unclear
- 4-6: CTA present but weak or generic
- 7-10: CTA is clear, compelling, and prominent

### Length Compliance
- LinkedIn: Max 3000 characters
- Facebook: Max 500 characters
- Email subject: Max 60 characters
- Email body: Max 300 words
- Web headline: Max 10 words
- Web hero: Max 50 words

## Output Format
Provide your evaluation in this exact format:

BRAND_VOICE_SCORE: [0-10]
CTA_CLARITY_SCORE: [0-10]
LENGTH_OK: [true/false]

ISSUES:
- [List specific problems found]
- [One issue per line]

FIXES:
- [Actionable suggestion for each issue]
- [One fix per line]

PASSED: [true if brand_voice >= 7 AND cta_clarity >= 7 AND length_ok, else false]
`))

func criticPrompt(st *State) (string, error) {
	var drafts strings.Builder
	for _, ch := range st.Channels {
		draft, ok := st.Drafts[ch]
		if !ok {
			continue
		}
		fmt.Fprintf(&drafts, "\n\n=== %s ===\n", strings.ToUpper(string(ch)))
		if draft.Headline != "" {
			fmt.Fprintf(&drafts, "Headline: %s\n", draft.Headline)
		}
		if draft.SubjectLine != "" {
			fmt.Fprintf(&drafts, "Subject: %s\n", draft.SubjectLine)
		}
		fmt.Fprintf(&drafts, "Body: %s\n", draft.Body)
		fmt.Fprintf(&drafts, "CTA: %s\n", draft.CTA)
	}

	data := struct {
		BrandContext string
		Drafts       string
	}{
		BrandContext: orDefault(renderChunks(st.BrandChunks), "No brand examples - evaluate for general marketing quality."),
		Drafts:       drafts.String(),
	}
	return render(criticPromptTmpl, data)
}

// verifierPromptTmpl asks the model to enumerate factual claims with a
// source classification: an exact chunk id, "user_input", or NONE.
var verifierPromptTmpl = template.Must(template.New("verifier").Parse(`You are a fact-checker. Extract all factual claims from the content and verify each against the available sources.

## Content to Verify
{{.Content}}

## Source Type 1: Corpus Documents
IMPORTANT: Corpus sources are formatted as [chunk_id]: followed by the text content.
Use the EXACT chunk_id when citing these sources.

{{.Sources}}

## Source Type 2: User-Provided Event Details
The following information was provided by the user in the event brief.
Claims derived from this data should use SOURCE: user_input

{{.EventContext}}

## Instructions
1. Identify every factual claim in the content (statements that could be true or false)
2. For each claim, check BOTH source types:
   - If the claim matches corpus content: use the exact chunk_id
   - If the claim matches user-provided event details: use "user_input"
   - If the claim matches neither: use "NONE"
3. A claim is SUPPORTED if it comes from either corpus OR user_input
4. A claim is UNSUPPORTED only if it matches neither source

Note: Opinions, calls-to-action, and general marketing statements are NOT factual claims.

## Your Output
For each factual claim found:

CLAIM: [The factual statement]
SOURCE: [chunk_id, "user_input", or "NONE"]
SUPPORTED: [true/false]

---

(Repeat for each claim)
`))

func verifierPrompt(st *State, content string) (string, error) {
	data := struct {
		Content      string
		Sources      string
		EventContext string
	}{
		Content:      content,
		Sources:      renderChunks(st.allChunks()),
		EventContext: renderUserFacts(st),
	}
	return render(verifierPromptTmpl, data)
}

// channelImageStyles is the per-channel visual style guidance for image
// generation prompts.
var channelImageStyles = map[types.Channel]string{
	types.ChannelLinkedIn: "Professional corporate photography, clean modern design, business atmosphere",
	types.ChannelFacebook: "Vibrant engaging social media graphic, eye-catching colors, dynamic composition",
	types.ChannelEmail:    "Clean professional header image, minimalist design, elegant typography space",
	types.ChannelWeb:      "Hero banner photography, high-impact visual, cinematic quality",
}

func imagePrompt(channel types.Channel, headline, eventTitle, audience string) string {
	style, ok := channelImageStyles[channel]
	if !ok {
		style = "Professional marketing visual"
	}
	return fmt.Sprintf("%s, representing a professional event titled %q for %s, "+
		"theme inspired by: %s, high-quality professional photography, "+
		"no text or words in the image, 16:9 aspect ratio, modern aesthetic, "+
		"soft professional lighting, corporate color palette",
		style, eventTitle, audience, headline)
}

// --- rendering helpers ---

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// renderChunks formats chunks as "[chunk_id]: text" blocks, the shape
// both the drafter citations and the verifier sources rely on.
func renderChunks(chunks []types.SourceChunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, fmt.Sprintf("[%s]: %s", c.ID, c.Text))
	}
	return strings.Join(parts, "\n\n")
}

func renderBullets(items []string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, "- "+item)
	}
	return strings.Join(parts, "\n")
}

func renderURLs(urls []types.ReferenceLink) string {
	parts := make([]string, 0, len(urls))
	for _, u := range urls {
		label := u.Label
		if label == "" {
			label = "Link"
		}
		parts = append(parts, fmt.Sprintf("- %s: %s", label, u.URL))
	}
	return strings.Join(parts, "\n")
}

// renderFeedback formats the previous critic verdict for inclusion in a
// re-draft prompt. Included only when iteration > 1.
func renderFeedback(fb *types.CriticFeedback) string {
	if fb == nil {
		return ""
	}
	return fmt.Sprintf(`
Previous feedback to address:
- Brand Voice Score: %d/10
- CTA Clarity Score: %d/10
- Issues: %s
- Suggested Fixes: %s
`, fb.BrandVoiceScore, fb.CTAClarityScore,
		strings.Join(fb.Issues, ", "), strings.Join(fb.Fixes, ", "))
}

// renderUserFacts builds the user-provided facts block the verifier
// accepts as the "user_input" source.
func renderUserFacts(st *State) string {
	var parts []string
	if st.EventTitle != "" {
		parts = append(parts, "Event Title: "+st.EventTitle)
	}
	if st.EventDescription != "" {
		parts = append(parts, "Event Description: "+st.EventDescription)
	}
	if st.EventDate != "" {
		parts = append(parts, "Event Date: "+st.EventDate)
	}
	if st.TargetAudience != "" {
		parts = append(parts, "Target Audience: "+st.TargetAudience)
	}
	if len(st.KeyMessages) > 0 {
		parts = append(parts, "Key Messages:\n"+renderBullets(st.KeyMessages))
	}
	return strings.Join(parts, "\n\n")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
