// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunkstore

import "github.com/pdiddy/content-engine/pkg/types"

// FallbackChunks returns the fixed substitute chunk set for a collection,
// used when the live index is empty or unreachable. Keeping demo and test
// runs alive matters more here than retrieval quality.
func FallbackChunks(collection string) []types.SourceChunk {
	switch collection {
	case CollectionBrandVoice:
		return []types.SourceChunk{
			{
				ID: "fallback_brand_1",
				Text: "Our brand voice is confident yet approachable. We speak " +
					"directly to our audience as peers, not as authorities lecturing " +
					"from above. Use active voice, concrete examples, and avoid jargon " +
					"unless our audience uses it daily.",
				Source: "fallback",
			},
			{
				ID: "fallback_brand_2",
				Text: "When writing calls-to-action, be specific about the benefit. " +
					"Don't say 'Learn more' - say 'See how teams cut review time by 50%'. " +
					"Every CTA should answer the reader's question: 'What's in it for me?'",
				Source: "fallback",
			},
		}
	case CollectionProductDocs:
		return []types.SourceChunk{
			{
				ID: "fallback_product_1",
				Text: "Our platform helps teams collaborate more effectively. " +
					"Key features include real-time editing, version control, and " +
					"seamless integrations with existing workflows.",
				Source: "fallback",
			},
		}
	default:
		return nil
	}
}
