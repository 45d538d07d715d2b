// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "fmt"

// describeStep builds the progress payload for a stage transition.
// Before a stage runs (after == false) the payload announces intent;
// after it runs, the payload summarizes what the stage produced.
func describeStep(step string, st *State, after bool) StepInfo {
	switch step {
	case "retrieve":
		return StepInfo{Description: "Searching brand voice and product documentation"}
	case "retrieve_done":
		return StepInfo{
			Description: "Source material retrieved",
			Metrics: map[string]any{
				"brand_chunks":   len(st.BrandChunks),
				"product_chunks": len(st.ProductChunks),
			},
		}
	case "draft":
		desc := "Drafting channel content"
		if st.Iteration > 0 {
			desc = fmt.Sprintf("Redrafting channel content (iteration %d)", st.Iteration+1)
		}
		return StepInfo{Description: desc, Details: channelNames(st.Channels)}
	case "draft_done":
		return StepInfo{
			Description: "Drafts generated",
			Details:     channelNames(st.Channels),
			Metrics:     map[string]any{"iteration": st.Iteration},
		}
	case "critic":
		return StepInfo{Description: "Evaluating drafts for brand voice and CTA clarity"}
	case "critic_done":
		info := StepInfo{Description: "Evaluation complete"}
		if fb := st.CriticFeedback; fb != nil {
			info.Metrics = map[string]any{
				"brand_voice_score": fb.BrandVoiceScore,
				"cta_clarity_score": fb.CTAClarityScore,
				"passed":            fb.Passed,
			}
			info.Details = fb.Issues
		}
		return info
	case "verify":
		return StepInfo{Description: "Verifying factual claims against sources"}
	case "verify_done":
		unsupported := st.unsupportedClaims()
		details := make([]string, 0, len(unsupported))
		for _, u := range unsupported {
			details = append(details, fmt.Sprintf("%s: %s", u.Channel, u.Claim))
		}
		return StepInfo{
			Description: "Claim verification complete",
			Details:     details,
			Metrics: map[string]any{
				"total_claims":       st.totalClaims(),
				"unsupported_claims": len(unsupported),
			},
		}
	case "generate_images":
		return StepInfo{Description: "Generating channel images"}
	case "generate_images_done":
		return StepInfo{
			Description: "Image generation complete",
			Metrics:     map[string]any{"images_generated": len(st.Images)},
		}
	case "export":
		return StepInfo{Description: "Assembling final output"}
	case "export_done":
		return StepInfo{
			Description: "Run complete",
			Metrics:     map[string]any{"iterations": st.Iteration},
		}
	}
	return StepInfo{Description: step}
}
