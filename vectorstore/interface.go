// Package vectorstore defines the contract for remote and embedded
// nearest-neighbor indexes holding the ingested knowledge base.
package vectorstore

import (
	"context"

	"github.com/aqua777/go-ragpipe/schema"
)

// VectorStore is the interface for vector index backends.
type VectorStore interface {
	// Query returns the top-k nearest neighbors for the query embedding,
	// ordered by descending relevance. A non-empty QueryText asks the store
	// to apply a server-side re-ranking pass over the candidate pool;
	// backends without re-ranking ignore it.
	Query(ctx context.Context, query schema.VectorStoreQuery) ([]schema.VectorMatch, error)
	// Upsert writes records into the index. This is the ingestion job's
	// write contract; the answering pipeline never calls it.
	Upsert(ctx context.Context, records []schema.VectorRecord) error
}
