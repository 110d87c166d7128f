package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua777/go-ragpipe/schema"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name:   "valid config",
			config: Config{APIKey: "test-key", IndexHost: "https://idx.pinecone.io"},
		},
		{
			name:        "empty API key",
			config:      Config{IndexHost: "https://idx.pinecone.io"},
			expectError: true,
		},
		{
			name:        "empty index host",
			config:      Config{APIKey: "test-key"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewClientDefaultsTimeout(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k", IndexHost: "https://idx"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.cfg.Timeout)
}

func TestClientQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Api-Key"))

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 10, req.TopK)
		assert.True(t, req.IncludeMetadata)
		assert.False(t, req.IncludeValues)
		assert.Equal(t, "what is the refund policy", req.QueryText)
		assert.Equal(t, "prod", req.Namespace)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []map[string]interface{}{
				{
					"id":    "faq-0",
					"score": 0.82,
					"metadata": map[string]string{
						"text":    "Refunds are processed within 14 days.",
						"sources": "faq.json",
						"section": "billing",
					},
				},
				{"id": "faq-9", "score": 0.41},
			},
		})
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "test-key", IndexHost: server.URL, Namespace: "prod"})
	require.NoError(t, err)

	matches, err := c.Query(context.Background(), schema.VectorStoreQuery{
		Embedding: []float64{0.1, 0.2},
		TopK:      10,
		QueryText: "what is the refund policy",
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "faq-0", matches[0].ID)
	assert.InDelta(t, 0.82, matches[0].Score, 1e-9)
	assert.Equal(t, "faq.json", matches[0].Metadata.Sources)
	assert.Empty(t, matches[1].Metadata.Sources)
}

func TestClientQueryOmitsEmptyQueryText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, present := raw["queryText"]
		assert.False(t, present, "queryText must be omitted when rerank is off")

		json.NewEncoder(w).Encode(map[string]interface{}{"matches": []interface{}{}})
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "k", IndexHost: server.URL})
	require.NoError(t, err)

	matches, err := c.Query(context.Background(), schema.VectorStoreQuery{Embedding: []float64{1}, TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestClientQueryServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "bad", IndexHost: server.URL})
	require.NoError(t, err)

	_, err = c.Query(context.Background(), schema.VectorStoreQuery{Embedding: []float64{1}, TopK: 1})
	require.Error(t, err)

	var svcErr *schema.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "vectorstore", svcErr.Service)
	assert.Contains(t, err.Error(), "401")
}

func TestClientQueryTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "k", IndexHost: server.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Query(context.Background(), schema.VectorStoreQuery{Embedding: []float64{1}, TopK: 1})
	require.Error(t, err)

	var svcErr *schema.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestClientUpsertBatches(t *testing.T) {
	var batches [][]upsertVector
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/upsert", r.URL.Path)

		var req upsertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		batches = append(batches, req.Vectors)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c, err := NewClient(Config{APIKey: "k", IndexHost: server.URL})
	require.NoError(t, err)

	records := make([]schema.VectorRecord, 150)
	for i := range records {
		records[i] = schema.VectorRecord{
			ID:       "chunk",
			Values:   []float64{float64(i)},
			Metadata: schema.ChunkMetadata{Text: "t"},
		}
	}

	require.NoError(t, c.Upsert(context.Background(), records))
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 100)
	assert.Len(t, batches[1], 50)
}
