package vectorstore

import (
	"context"

	"github.com/aqua777/go-ragpipe/schema"
)

// MockVectorStore is a mock implementation of the VectorStore interface.
type MockVectorStore struct {
	Matches []schema.VectorMatch
	Err     error
	// LastQuery is the most recent query, for asserting top-k and rerank.
	LastQuery schema.VectorStoreQuery
	// Upserted accumulates records passed to Upsert.
	Upserted []schema.VectorRecord
}

func (m *MockVectorStore) Query(ctx context.Context, query schema.VectorStoreQuery) ([]schema.VectorMatch, error) {
	m.LastQuery = query
	return m.Matches, m.Err
}

func (m *MockVectorStore) Upsert(ctx context.Context, records []schema.VectorRecord) error {
	if m.Err != nil {
		return m.Err
	}
	m.Upserted = append(m.Upserted, records...)
	return nil
}

var _ VectorStore = (*MockVectorStore)(nil)
