// Package chromem implements the vectorstore contract on an embedded
// chromem-go database, for local deployments and tests where a remote index
// is unavailable.
package chromem

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"

	"github.com/aqua777/go-ragpipe/schema"
	"github.com/aqua777/go-ragpipe/vectorstore"
)

const serviceName = "vectorstore"

// Metadata keys used for the stored chunk fields.
const (
	metaSources = "sources"
	metaSection = "section"
)

// Store is an embedded vector store backed by chromem-go.
// It performs plain cosine-similarity search; server-side re-ranking is not
// available, so VectorStoreQuery.QueryText is ignored.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewStore creates a Store with the named collection. An empty persistPath
// keeps the store in memory.
func NewStore(persistPath string, collectionName string) (*Store, error) {
	var db *chromem.DB
	if persistPath != "" {
		var err error
		db, err = chromem.NewPersistentDB(persistPath, false)
		if err != nil {
			return nil, fmt.Errorf("create persistent chromem db: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	// Embeddings are produced by the ingestion job; no embedding function
	// is configured on the collection.
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get or create collection: %w", err)
	}

	return &Store{db: db, collection: collection}, nil
}

// Upsert writes records into the collection.
func (s *Store) Upsert(ctx context.Context, records []schema.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(records))
	for i, r := range records {
		if len(r.Values) == 0 {
			return schema.NewServiceError(serviceName, fmt.Errorf("record %s has no embedding", r.ID))
		}

		docs[i] = chromem.Document{
			ID:      r.ID,
			Content: r.Metadata.Text,
			Metadata: map[string]string{
				metaSources: r.Metadata.Sources,
				metaSection: r.Metadata.Section,
			},
			Embedding: toFloat32(r.Values),
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return schema.NewServiceError(serviceName, fmt.Errorf("add documents: %w", err))
	}
	return nil
}

// Query returns the top-k most similar records to the query embedding.
func (s *Store) Query(ctx context.Context, query schema.VectorStoreQuery) ([]schema.VectorMatch, error) {
	topK := query.TopK
	if count := s.collection.Count(); topK > count {
		// chromem rejects a topK larger than the collection.
		topK = count
	}
	if topK == 0 {
		return []schema.VectorMatch{}, nil
	}

	res, err := s.collection.QueryEmbedding(ctx, toFloat32(query.Embedding), topK, nil, nil)
	if err != nil {
		return nil, schema.NewServiceError(serviceName, fmt.Errorf("query collection: %w", err))
	}

	matches := make([]schema.VectorMatch, len(res))
	for i, doc := range res {
		matches[i] = schema.VectorMatch{
			ID:    doc.ID,
			Score: float64(doc.Similarity),
			Metadata: schema.ChunkMetadata{
				Text:    doc.Content,
				Sources: doc.Metadata[metaSources],
				Section: doc.Metadata[metaSection],
			},
		}
	}
	return matches, nil
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	return s.collection.Count()
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

var _ vectorstore.VectorStore = (*Store)(nil)
