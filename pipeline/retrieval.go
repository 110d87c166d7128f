package pipeline

import (
	"context"

	"github.com/aqua777/go-ragpipe/schema"
)

// runRetrieval embeds the validated question and queries the vector store
// for the top-k nearest neighbors, optionally re-ranked server-side.
//
// Retrieval failure is non-fatal: the stage degrades to an empty chunk list
// and the pipeline still attempts an answer.
func (p *Pipeline) runRetrieval(ctx context.Context, state *schema.RequestState) StageResult {
	question := state.ValidatedQuestion

	vector, err := p.embedder.GetQueryEmbedding(ctx, question)
	if err != nil {
		state.RelevantChunks = []schema.RetrievedChunk{}
		return degraded(schema.StatusRetrievalFailed, err)
	}

	query := schema.VectorStoreQuery{
		Embedding: vector,
		TopK:      p.topK,
	}
	if p.rerank {
		query.QueryText = question
	}

	matches, err := p.store.Query(ctx, query)
	if err != nil {
		state.RelevantChunks = []schema.RetrievedChunk{}
		return degraded(schema.StatusRetrievalFailed, err)
	}

	chunks := make([]schema.RetrievedChunk, len(matches))
	for i, m := range matches {
		chunks[i] = m.Chunk()
	}
	state.RelevantChunks = chunks

	p.logger.Info("retrieval completed", "chunks", len(chunks), "reranked", p.rerank)
	if len(chunks) > 0 {
		p.logger.Debug("top match",
			"chunk_id", chunks[0].ChunkID,
			"score", chunks[0].Score,
			"section", chunks[0].Section,
		)
	}

	return succeeded(schema.StatusRetrievalCompleted)
}
