// Package embedding provides clients that turn text into fixed-length
// numeric vectors via an external embedding service.
package embedding

import "context"

// EmbeddingModel is the interface for generating text embeddings.
// Dimensionality is fixed per configured model.
type EmbeddingModel interface {
	// GetTextEmbedding generates an embedding for a passage of text.
	GetTextEmbedding(ctx context.Context, text string) ([]float64, error)
	// GetQueryEmbedding generates an embedding for a query.
	// This is often the same as GetTextEmbedding, but some models treat them differently.
	GetQueryEmbedding(ctx context.Context, query string) ([]float64, error)
}

// ProgressCallback reports batch embedding progress.
type ProgressCallback func(done, total int)

// EmbeddingModelWithBatch extends EmbeddingModel with batch processing,
// used by the offline ingestion job.
type EmbeddingModelWithBatch interface {
	EmbeddingModel
	// GetTextEmbeddingsBatch generates embeddings for multiple texts.
	// The callback is optional and can be used to track progress.
	GetTextEmbeddingsBatch(ctx context.Context, texts []string, callback ProgressCallback) ([][]float64, error)
}
