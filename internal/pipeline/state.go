// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline implements the content generation state machine:
// Retrieve -> Draft -> Critic -> Verify -> (loop) -> GenerateImages ->
// Export. Stages consume a state snapshot and return the fields they
// change; the orchestrator alone merges patches and owns the state.
// See docs/ARCHITECTURE § Pipeline.
package pipeline

import (
	"github.com/pdiddy/content-engine/pkg/types"
)

// Request is the driver input for one generation run.
type Request struct {
	// EventTitle is the event name.
	EventTitle string

	// EventDescription says what the event is about.
	EventDescription string

	// EventDate is the event date, free-form (optional).
	EventDate string

	// TargetAudience says who the content is for.
	TargetAudience string

	// KeyMessages are the points the content must convey.
	KeyMessages []string

	// Channels lists target channels; drafting follows this order.
	Channels []types.Channel

	// RelevantURLs are labeled links to weave into CTAs and bodies.
	RelevantURLs []types.ReferenceLink

	// Progress, when set, is invoked before and after each stage with a
	// structured payload and the current iteration. Purely observational.
	Progress Progress
}

// StepInfo is the structured payload handed to the Progress callback.
type StepInfo struct {
	Description string
	Details     []string
	Metrics     map[string]any
}

// Progress observes stage transitions. Steps are reported as "name"
// before a stage runs and "name_done" after.
type Progress func(step string, info StepInfo, iteration int)

// State is the single record threaded through all stages. The
// orchestrator owns it exclusively; stages only read it.
type State struct {
	// Input fields, immutable after initialization.
	EventTitle       string
	EventDescription string
	EventDate        string
	TargetAudience   string
	KeyMessages      []string
	Channels         []types.Channel
	RelevantURLs     []types.ReferenceLink

	// Retrieval results, replaced wholesale each run.
	BrandChunks   []types.SourceChunk
	ProductChunks []types.SourceChunk

	// Drafts by channel, replaced wholesale each iteration.
	Drafts map[types.Channel]types.ChannelDraft

	// CriticFeedback is the latest verdict, replaced each iteration.
	CriticFeedback *types.CriticFeedback

	// Iteration equals the number of completed Drafter runs.
	Iteration int

	// AuditLog is append-only; insertion order is execution order.
	AuditLog []types.AuditEntry

	// Images by channel, populated once near the end.
	Images map[types.Channel][]byte

	// FinalOutput is set exactly once, by the exporter.
	FinalOutput *types.FinalOutput
}

func newState(req Request) *State {
	return &State{
		EventTitle:       req.EventTitle,
		EventDescription: req.EventDescription,
		EventDate:        req.EventDate,
		TargetAudience:   req.TargetAudience,
		KeyMessages:      req.KeyMessages,
		Channels:         req.Channels,
		RelevantURLs:     req.RelevantURLs,
	}
}

// Patch is a partial state update returned by a stage. Nil fields are
// left untouched by apply; non-nil maps and slices replace wholesale.
type Patch struct {
	BrandChunks    []types.SourceChunk
	ProductChunks  []types.SourceChunk
	Drafts         map[types.Channel]types.ChannelDraft
	CriticFeedback *types.CriticFeedback
	IterationDelta int
	Images         map[types.Channel][]byte
	FinalOutput    *types.FinalOutput

	// AuditEntries are appended, never merged. Every stage contributes
	// exactly one.
	AuditEntries []types.AuditEntry
}

// apply merges a stage's patch into the state. This is the only place
// state changes.
func (s *State) apply(p Patch) {
	if p.BrandChunks != nil {
		s.BrandChunks = p.BrandChunks
	}
	if p.ProductChunks != nil {
		s.ProductChunks = p.ProductChunks
	}
	if p.Drafts != nil {
		s.Drafts = p.Drafts
	}
	if p.CriticFeedback != nil {
		s.CriticFeedback = p.CriticFeedback
	}
	s.Iteration += p.IterationDelta
	if p.Images != nil {
		s.Images = p.Images
	}
	if p.FinalOutput != nil {
		s.FinalOutput = p.FinalOutput
	}
	s.AuditLog = append(s.AuditLog, p.AuditEntries...)
}

// allChunks returns brand chunks followed by product chunks.
func (s *State) allChunks() []types.SourceChunk {
	chunks := make([]types.SourceChunk, 0, len(s.BrandChunks)+len(s.ProductChunks))
	chunks = append(chunks, s.BrandChunks...)
	chunks = append(chunks, s.ProductChunks...)
	return chunks
}

// knownChunkIDs returns the set of retrievable chunk identifiers, the
// universe a claim's source may legitimately name.
func (s *State) knownChunkIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, c := range s.allChunks() {
		ids[c.ID] = true
	}
	return ids
}

// unsupportedClaims returns channel/claim pairs for every unsupported
// claim, in channel order.
type unsupportedClaim struct {
	Channel types.Channel `json:"channel"`
	Claim   string        `json:"claim"`
}

func (s *State) unsupportedClaims() []unsupportedClaim {
	var out []unsupportedClaim
	for _, ch := range s.Channels {
		draft, ok := s.Drafts[ch]
		if !ok {
			continue
		}
		for _, claim := range draft.Claims {
			if !claim.IsSupported {
				out = append(out, unsupportedClaim{Channel: ch, Claim: claim.Text})
			}
		}
	}
	return out
}

func (s *State) totalClaims() int {
	total := 0
	for _, d := range s.Drafts {
		total += len(d.Claims)
	}
	return total
}
