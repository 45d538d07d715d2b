// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/content-engine/internal/imagegen"
	"github.com/pdiddy/content-engine/internal/llm"
	"github.com/pdiddy/content-engine/pkg/types"
)

// Pipeline drives the content generation state machine. It owns the
// State for the duration of a run; stages never hold state across
// invocations.
type Pipeline struct {
	// Completion is the language model backend. Required. Failures here
	// (after retries) are fatal to the run.
	Completion llm.Backend

	// Chunks is the similarity index. Required; it degrades internally
	// rather than failing.
	Chunks ChunkSearcher

	// Images is the image generator. Nil soft-disables the image stage.
	Images imagegen.Generator

	// Config carries per-stage settings.
	Config types.PipelineConfig

	// Logger records stage events. Nil means no logging.
	Logger *zap.Logger

	// now and newRunID are injectable for deterministic tests.
	now      func() time.Time
	newRunID func() string
}

// New assembles a pipeline from its collaborators.
func New(completion llm.Backend, chunks ChunkSearcher, images imagegen.Generator, cfg types.PipelineConfig, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		Completion: completion,
		Chunks:     chunks,
		Images:     images,
		Config:     cfg,
		Logger:     logger,
	}
}

// Run executes one generation run:
//
//	Retrieve -> [ Draft -> Critic -> Verify ]* -> GenerateImages -> Export
//
// The bracketed cycle repeats until the loop controller finalizes, at
// most 3 times. Degraded inputs never abort the run; completion-service
// failures do, surfacing here as a generation error.
func (p *Pipeline) Run(ctx context.Context, req Request) (*types.FinalOutput, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	st := newState(req)

	p.emit(req.Progress, "retrieve", st, false)
	st.apply(p.retrieve(ctx, st))
	p.emit(req.Progress, "retrieve_done", st, true)

	for {
		p.emit(req.Progress, "draft", st, false)
		patch, err := p.draft(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}
		st.apply(patch)
		p.emit(req.Progress, "draft_done", st, true)

		p.emit(req.Progress, "critic", st, false)
		patch, err = p.critic(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}
		st.apply(patch)
		p.emit(req.Progress, "critic_done", st, true)

		p.emit(req.Progress, "verify", st, false)
		patch, err = p.verify(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}
		st.apply(patch)
		p.emit(req.Progress, "verify_done", st, true)

		if decide(st) == decisionFinalize {
			break
		}
		p.logger().Info("quality gate not met, redrafting", zap.Int("iteration", st.Iteration))
	}

	p.emit(req.Progress, "generate_images", st, false)
	st.apply(p.generateImages(ctx, st))
	p.emit(req.Progress, "generate_images_done", st, true)

	p.emit(req.Progress, "export", st, false)
	st.apply(p.export(st))
	p.emit(req.Progress, "export_done", st, true)

	return st.FinalOutput, nil
}

func validateRequest(req Request) error {
	if req.EventTitle == "" {
		return fmt.Errorf("event title is required")
	}
	if len(req.Channels) == 0 {
		return fmt.Errorf("at least one channel is required")
	}
	for _, ch := range req.Channels {
		if !types.ValidChannels[ch] {
			return fmt.Errorf("unknown channel %q", ch)
		}
	}
	return nil
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Pipeline) timestamp() string {
	if p.now != nil {
		return p.now().UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// runID generates a unique identifier for one pipeline execution.
func (p *Pipeline) runIDValue() string {
	if p.newRunID != nil {
		return p.newRunID()
	}
	return "run_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func (p *Pipeline) auditEntry(node, action string, details map[string]any) types.AuditEntry {
	return types.AuditEntry{
		Node:      node,
		Timestamp: p.timestamp(),
		Action:    action,
		Details:   details,
	}
}

// emit invokes the progress callback, if any, with a structured payload
// for the step. Purely observational; errors cannot flow back.
func (p *Pipeline) emit(progress Progress, step string, st *State, after bool) {
	if progress == nil {
		return
	}
	progress(step, describeStep(step, st, after), st.Iteration)
}
