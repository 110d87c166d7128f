package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua777/go-ragpipe/schema"
)

func TestStoreUpsertAndQuery(t *testing.T) {
	ctx := context.Background()

	store, err := NewStore("", "test-collection")
	require.NoError(t, err)

	records := []schema.VectorRecord{
		{
			ID:       "billing-0",
			Values:   []float64{1.0, 0.0, 0.0},
			Metadata: schema.ChunkMetadata{Text: "Refunds take 14 days.", Sources: "faq.json", Section: "billing"},
		},
		{
			ID:       "shipping-0",
			Values:   []float64{0.0, 1.0, 0.0},
			Metadata: schema.ChunkMetadata{Text: "We ship worldwide.", Sources: "faq.json", Section: "shipping"},
		},
	}
	require.NoError(t, store.Upsert(ctx, records))
	assert.Equal(t, 2, store.Count())

	matches, err := store.Query(ctx, schema.VectorStoreQuery{
		Embedding: []float64{1.0, 0.0, 0.0},
		TopK:      1,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	assert.Equal(t, "billing-0", matches[0].ID)
	assert.Equal(t, "Refunds take 14 days.", matches[0].Metadata.Text)
	assert.Equal(t, "billing", matches[0].Metadata.Section)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-4)
}

func TestStoreQueryClampsTopK(t *testing.T) {
	ctx := context.Background()

	store, err := NewStore("", "clamp")
	require.NoError(t, err)

	require.NoError(t, store.Upsert(ctx, []schema.VectorRecord{
		{ID: "only", Values: []float64{0.5, 0.5}, Metadata: schema.ChunkMetadata{Text: "t"}},
	}))

	// TopK larger than the collection must not error.
	matches, err := store.Query(ctx, schema.VectorStoreQuery{Embedding: []float64{0.5, 0.5}, TopK: 10})
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestStoreQueryEmptyCollection(t *testing.T) {
	store, err := NewStore("", "empty")
	require.NoError(t, err)

	matches, err := store.Query(context.Background(), schema.VectorStoreQuery{Embedding: []float64{1}, TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStoreUpsertRejectsMissingEmbedding(t *testing.T) {
	store, err := NewStore("", "invalid")
	require.NoError(t, err)

	err = store.Upsert(context.Background(), []schema.VectorRecord{
		{ID: "bad", Metadata: schema.ChunkMetadata{Text: "no vector"}},
	})
	require.Error(t, err)

	var svcErr *schema.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestStorePersistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir, "persist")
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, []schema.VectorRecord{
		{ID: "a", Values: []float64{1, 0}, Metadata: schema.ChunkMetadata{Text: "kept"}},
	}))

	reopened, err := NewStore(dir, "persist")
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Count())
}
