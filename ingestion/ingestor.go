package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aqua777/go-ragpipe/embedding"
	"github.com/aqua777/go-ragpipe/schema"
	"github.com/aqua777/go-ragpipe/vectorstore"
)

// Ingestor turns documents into embedded chunks and writes them to a vector
// store.
type Ingestor struct {
	embedder embedding.EmbeddingModelWithBatch
	store    vectorstore.VectorStore
	splitter *Splitter
	logger   *slog.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithSplitter overrides the default chunk splitter.
func WithSplitter(s *Splitter) IngestorOption {
	return func(i *Ingestor) {
		i.splitter = s
	}
}

// WithIngestorLogger sets the logger for ingestion progress.
func WithIngestorLogger(logger *slog.Logger) IngestorOption {
	return func(i *Ingestor) {
		i.logger = logger
	}
}

// NewIngestor creates an Ingestor with the default splitter.
func NewIngestor(embedder embedding.EmbeddingModelWithBatch, store vectorstore.VectorStore, opts ...IngestorOption) (*Ingestor, error) {
	ing := &Ingestor{
		embedder: embedder,
		store:    store,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	if ing.splitter == nil {
		splitter, err := NewSplitter(DefaultChunkSize, DefaultChunkOverlap)
		if err != nil {
			return nil, err
		}
		ing.splitter = splitter
	}
	return ing, nil
}

// Stats summarizes an ingestion run.
type Stats struct {
	Documents int
	Chunks    int
}

// IngestDir reads every supported file under dir and ingests the resulting
// documents.
func (i *Ingestor) IngestDir(ctx context.Context, dir string) (Stats, error) {
	docs, err := ReadDir(dir)
	if err != nil {
		return Stats{}, err
	}
	return i.Ingest(ctx, docs)
}

// Ingest splits, embeds, and upserts documents. Chunk IDs are derived from
// the document section so re-ingesting the same corpus overwrites in place.
func (i *Ingestor) Ingest(ctx context.Context, docs []Document) (Stats, error) {
	var records []schema.VectorRecord
	for _, doc := range docs {
		chunks := i.splitter.SplitText(doc.Text)
		for n, chunk := range chunks {
			records = append(records, schema.VectorRecord{
				ID: chunkID(doc.Section, n),
				Metadata: schema.ChunkMetadata{
					Text:    chunk,
					Sources: doc.Sources,
					Section: doc.Section,
				},
			})
		}
	}
	if len(records) == 0 {
		i.logger.Warn("no chunks produced from documents", "documents", len(docs))
		return Stats{Documents: len(docs)}, nil
	}

	texts := make([]string, len(records))
	for n, r := range records {
		texts[n] = r.Metadata.Text
	}

	embeddings, err := i.embedder.GetTextEmbeddingsBatch(ctx, texts, func(done, total int) {
		i.logger.Info("embedding chunks", "done", done, "total", total)
	})
	if err != nil {
		return Stats{}, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(records) {
		return Stats{}, fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(records))
	}
	for n := range records {
		records[n].Values = embeddings[n]
	}

	if err := i.store.Upsert(ctx, records); err != nil {
		return Stats{}, fmt.Errorf("upsert chunks: %w", err)
	}

	stats := Stats{Documents: len(docs), Chunks: len(records)}
	i.logger.Info("ingestion completed", "documents", stats.Documents, "chunks", stats.Chunks)
	return stats, nil
}

// chunkID builds a stable chunk identifier from the section name. Documents
// without a section fall back to a random ID.
func chunkID(section string, n int) string {
	if section == "" {
		return uuid.NewString()
	}
	return fmt.Sprintf("%s-%d", section, n)
}
