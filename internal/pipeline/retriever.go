// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/content-engine/internal/chunkstore"
	"github.com/pdiddy/content-engine/pkg/types"
)

const retrieveTopK = 5

// ChunkSearcher is the similarity index consumed by the retriever. It
// fails open: implementations substitute fallback chunks rather than
// returning an error.
type ChunkSearcher interface {
	Search(ctx context.Context, query, collection string, topK int) []types.SourceChunk
}

// retrieve pulls grounding context for the event: brand voice examples
// and product documentation, queried independently. Nothing here is
// fatal; the searcher degrades on its own.
func (p *Pipeline) retrieve(ctx context.Context, st *State) Patch {
	query := fmt.Sprintf("Event: %s\nDescription: %s\nAudience: %s\nKey Messages: %s",
		st.EventTitle, st.EventDescription, st.TargetAudience,
		strings.Join(st.KeyMessages, ", "))

	brand := p.Chunks.Search(ctx, query, chunkstore.CollectionBrandVoice, retrieveTopK)
	product := p.Chunks.Search(ctx, query, chunkstore.CollectionProductDocs, retrieveTopK)

	p.logger().Info("retrieved grounding chunks",
		zap.Int("brand_chunks", len(brand)),
		zap.Int("product_chunks", len(product)))

	return Patch{
		BrandChunks:   brand,
		ProductChunks: product,
		AuditEntries: []types.AuditEntry{p.auditEntry("retrieve", "retrieved_chunks", map[string]any{
			"brand_chunks_count":   len(brand),
			"product_chunks_count": len(product),
			"query_preview":        preview(query, 200),
		})},
	}
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
