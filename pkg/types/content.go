// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the domain records shared across the content
// generation pipeline. See docs/ARCHITECTURE § Data Model.
package types

// Channel identifies a marketing channel the pipeline can draft for.
type Channel string

const (
	ChannelLinkedIn Channel = "linkedin"
	ChannelFacebook Channel = "facebook"
	ChannelEmail    Channel = "email"
	ChannelWeb      Channel = "web"
)

// ValidChannels is the set of accepted Channel values.
var ValidChannels = map[Channel]bool{
	ChannelLinkedIn: true,
	ChannelFacebook: true,
	ChannelEmail:    true,
	ChannelWeb:      true,
}

// UserInputSource is the sentinel source ID for claims supported by the
// event brief itself rather than a corpus chunk.
const UserInputSource = "user_input"

// SourceChunk is a retrievable unit of corpus text with a stable
// identifier, used for grounding and citation. Immutable once retrieved.
type SourceChunk struct {
	// ID is unique within a collection (e.g. "chunk_ed531959").
	ID string `json:"id" yaml:"id"`

	// Text is the chunk content.
	Text string `json:"text" yaml:"text"`

	// Source names the document the chunk came from (optional).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Claim is an atomic factual statement extracted from generated content,
// paired with a support classification.
type Claim struct {
	// Text is the factual statement made in the content.
	Text string `json:"text" yaml:"text"`

	// SourceChunkID is the ID of the supporting chunk, the sentinel
	// "user_input", or empty when the claim has no source.
	SourceChunkID string `json:"source_chunk_id,omitempty" yaml:"source_chunk_id,omitempty"`

	// IsSupported is true iff SourceChunkID names a real chunk or equals
	// "user_input".
	IsSupported bool `json:"is_supported" yaml:"is_supported"`
}

// ChannelDraft is generated content for one marketing channel. Drafts are
// recreated each iteration, never mutated in place; the verifier replaces
// Claims wholesale.
type ChannelDraft struct {
	// Channel this draft is for.
	Channel Channel `json:"channel" yaml:"channel"`

	// Headline is optional; not all channels use one.
	Headline string `json:"headline,omitempty" yaml:"headline,omitempty"`

	// SubjectLine is the email subject (email channel only).
	SubjectLine string `json:"subject_line,omitempty" yaml:"subject_line,omitempty"`

	// Body is the main content, possibly carrying inline
	// [source: chunk_id] citation markers.
	Body string `json:"body" yaml:"body"`

	// CTA is the call-to-action text.
	CTA string `json:"cta" yaml:"cta"`

	// Claims are the factual claims made in this draft.
	Claims []Claim `json:"claims" yaml:"claims"`
}

// CriticFeedback is the quality evaluation for one batch of drafts. The
// rubric is global: scores apply to the whole batch, not per channel.
type CriticFeedback struct {
	// BrandVoiceScore rates brand voice alignment, 0-10.
	BrandVoiceScore int `json:"brand_voice_score" yaml:"brand_voice_score"`

	// CTAClarityScore rates call-to-action clarity, 0-10.
	CTAClarityScore int `json:"cta_clarity_score" yaml:"cta_clarity_score"`

	// LengthOK reports whether all drafts meet their channel length rules.
	LengthOK bool `json:"length_ok" yaml:"length_ok"`

	// Issues lists specific problems found.
	Issues []string `json:"issues" yaml:"issues"`

	// Fixes lists actionable suggestions, one per issue.
	Fixes []string `json:"fixes" yaml:"fixes"`

	// Passed is true only if both scores >= 7 and LengthOK. The critic
	// parser derives this from the parsed fields; constructors elsewhere
	// are responsible for keeping it consistent.
	Passed bool `json:"passed" yaml:"passed"`
}

// AuditEntry records one pipeline action. Entries are write-once and the
// audit log is append-only, in execution order.
type AuditEntry struct {
	// Node names the stage that produced the entry.
	Node string `json:"node" yaml:"node"`

	// Timestamp is an RFC 3339 timestamp.
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// Action states what was done (e.g. "retrieved_chunks", "skipped").
	Action string `json:"action" yaml:"action"`

	// Details carries structured facts about the action.
	Details map[string]any `json:"details" yaml:"details"`
}

// ReferenceLink is a labeled URL supplied with the event brief.
type ReferenceLink struct {
	// Label is the display text (e.g. "Register").
	Label string `json:"label" yaml:"label"`

	// URL is the link target.
	URL string `json:"url" yaml:"url"`
}

// ChannelContent is the exported form of one channel's draft, including
// clean-copy renderings with citation markers stripped.
type ChannelContent struct {
	Headline    string `json:"headline,omitempty" yaml:"headline,omitempty"`
	SubjectLine string `json:"subject_line,omitempty" yaml:"subject_line,omitempty"`
	Body        string `json:"body" yaml:"body"`
	CTA         string `json:"cta" yaml:"cta"`

	// CleanBody and CleanCTA have [source: chunk_id] markers removed,
	// ready to paste into the target channel.
	CleanBody string `json:"clean_body" yaml:"clean_body"`
	CleanCTA  string `json:"clean_cta" yaml:"clean_cta"`
}

// Scorecard summarizes the last critic verdict for the final output.
// Scores are nil when the loop capped out before a critic run.
type Scorecard struct {
	BrandVoiceScore *int `json:"brand_voice_score" yaml:"brand_voice_score"`
	CTAClarityScore *int `json:"cta_clarity_score" yaml:"cta_clarity_score"`
	Iterations      int  `json:"iterations" yaml:"iterations"`
	Passed          bool `json:"passed" yaml:"passed"`
}

// ClaimRow is one row of the flattened claims table, carrying the channel
// the claim appeared in.
type ClaimRow struct {
	Channel     Channel `json:"channel" yaml:"channel"`
	Claim       string  `json:"claim" yaml:"claim"`
	Source      string  `json:"source,omitempty" yaml:"source,omitempty"`
	IsSupported bool    `json:"is_supported" yaml:"is_supported"`
}

// InputSnapshot preserves the original event brief inside the audit
// section of the final output.
type InputSnapshot struct {
	EventTitle       string          `json:"event_title" yaml:"event_title"`
	EventDescription string          `json:"event_description" yaml:"event_description"`
	EventDate        string          `json:"event_date,omitempty" yaml:"event_date,omitempty"`
	TargetAudience   string          `json:"target_audience" yaml:"target_audience"`
	KeyMessages      []string        `json:"key_messages" yaml:"key_messages"`
	Channels         []Channel       `json:"channels" yaml:"channels"`
	RelevantURLs     []ReferenceLink `json:"relevant_urls,omitempty" yaml:"relevant_urls,omitempty"`
}

// RetrievalCounts records how many chunks each collection contributed.
type RetrievalCounts struct {
	BrandChunks   int `json:"brand_chunks" yaml:"brand_chunks"`
	ProductChunks int `json:"product_chunks" yaml:"product_chunks"`
}

// AuditSection is the provenance block of the final output: run identity,
// input snapshot, retrieval counts, and the full per-stage log.
type AuditSection struct {
	RunID            string          `json:"run_id" yaml:"run_id"`
	Timestamp        string          `json:"timestamp" yaml:"timestamp"`
	Input            InputSnapshot   `json:"input" yaml:"input"`
	SourcesRetrieved RetrievalCounts `json:"sources_retrieved" yaml:"sources_retrieved"`
	Iterations       []AuditEntry    `json:"iterations" yaml:"iterations"`
}

// FinalOutput is the read-only bundle built once by the exporter.
type FinalOutput struct {
	// Content maps channel to its exported draft.
	Content map[Channel]ChannelContent `json:"content" yaml:"content"`

	// Images maps channel to raw generated image bytes. Only channels
	// whose generation succeeded are present.
	Images map[Channel][]byte `json:"images,omitempty" yaml:"images,omitempty"`

	// RelevantURLs echoes the brief's reference links.
	RelevantURLs []ReferenceLink `json:"relevant_urls,omitempty" yaml:"relevant_urls,omitempty"`

	// Scorecard summarizes the last critic verdict.
	Scorecard Scorecard `json:"scorecard" yaml:"scorecard"`

	// ClaimsTable lists every claim across all channels, in channel order.
	ClaimsTable []ClaimRow `json:"claims_table" yaml:"claims_table"`

	// Audit is the full provenance trail for the run.
	Audit AuditSection `json:"audit_log" yaml:"audit_log"`
}
