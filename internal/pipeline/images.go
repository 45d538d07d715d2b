// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/content-engine/pkg/types"
)

// generateImages produces one marketing image per channel, best-effort.
// A missing image generator is a soft disable: the stage records a skip
// and returns an empty map. Per-channel failures are collected and
// logged; a failed channel simply has no image.
func (p *Pipeline) generateImages(ctx context.Context, st *State) Patch {
	if p.Images == nil {
		p.logger().Info("image generation skipped", zap.String("reason", "no credential configured"))
		return Patch{
			Images: map[types.Channel][]byte{},
			AuditEntries: []types.AuditEntry{p.auditEntry("generate_images", "skipped", map[string]any{
				"reason": "no image service credential configured",
			})},
		}
	}

	images := make(map[types.Channel][]byte)
	var errors []map[string]string

	for _, channel := range st.Channels {
		draft, ok := st.Drafts[channel]
		if !ok {
			continue
		}

		headline := draft.Headline
		if headline == "" {
			headline = st.EventTitle
		}
		prompt := imagePrompt(channel, headline, st.EventTitle, st.TargetAudience)

		data, err := p.Images.Generate(ctx, prompt)
		if err != nil {
			p.logger().Warn("image generation failed",
				zap.String("channel", string(channel)), zap.Error(err))
			errors = append(errors, map[string]string{
				"channel": string(channel),
				"error":   err.Error(),
			})
			continue
		}
		images[channel] = data
	}

	return Patch{
		Images: images,
		AuditEntries: []types.AuditEntry{p.auditEntry("generate_images", "generated_images", map[string]any{
			"channels_requested": channelNames(st.Channels),
			"images_generated":   len(images),
			"errors":             errors,
		})},
	}
}
