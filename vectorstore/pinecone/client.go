// Package pinecone implements the vectorstore contract against the Pinecone
// data-plane REST API.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aqua777/go-ragpipe/schema"
	"github.com/aqua777/go-ragpipe/vectorstore"
)

const serviceName = "vectorstore"

// DefaultTimeout bounds each index request. A hung call must surface as an
// error the owning pipeline stage can absorb.
const DefaultTimeout = 30 * time.Second

// Config holds the connection settings for a Pinecone index.
type Config struct {
	// APIKey authenticates against the data plane.
	APIKey string
	// IndexHost is the index endpoint, e.g. https://my-index-abc123.svc.pinecone.io.
	IndexHost string
	// Namespace scopes reads and writes. Empty uses the default namespace.
	Namespace string
	// Timeout bounds each HTTP request. Zero uses DefaultTimeout.
	Timeout time.Duration
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("pinecone: API key is required")
	}
	if c.IndexHost == "" {
		return fmt.Errorf("pinecone: index host is required")
	}
	return nil
}

// Client is a Pinecone index client.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the configured index.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}, nil
}

// WithLogger replaces the default logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// WithHTTPClient replaces the default HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type queryRequest struct {
	Vector          []float64 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	IncludeValues   bool      `json:"includeValues"`
	Namespace       string    `json:"namespace,omitempty"`
	// QueryText triggers the server-side re-ranking pass over the
	// candidate pool when present.
	QueryText string `json:"queryText,omitempty"`
}

type queryResponse struct {
	Matches []struct {
		ID       string               `json:"id"`
		Score    float64              `json:"score"`
		Metadata schema.ChunkMetadata `json:"metadata"`
	} `json:"matches"`
}

// Query runs a nearest-neighbor search, optionally re-ranked server-side.
func (c *Client) Query(ctx context.Context, query schema.VectorStoreQuery) ([]schema.VectorMatch, error) {
	req := queryRequest{
		Vector:          query.Embedding,
		TopK:            query.TopK,
		IncludeMetadata: true,
		Namespace:       c.cfg.Namespace,
		QueryText:       query.QueryText,
	}

	var resp queryResponse
	if err := c.post(ctx, "/query", req, &resp); err != nil {
		return nil, err
	}

	matches := make([]schema.VectorMatch, len(resp.Matches))
	for i, m := range resp.Matches {
		matches[i] = schema.VectorMatch{ID: m.ID, Score: m.Score, Metadata: m.Metadata}
	}

	c.logger.Debug("pinecone query completed",
		"top_k", query.TopK,
		"reranked", query.QueryText != "",
		"matches", len(matches),
	)
	return matches, nil
}

type upsertRequest struct {
	Vectors   []upsertVector `json:"vectors"`
	Namespace string         `json:"namespace,omitempty"`
}

type upsertVector struct {
	ID       string               `json:"id"`
	Values   []float64            `json:"values"`
	Metadata schema.ChunkMetadata `json:"metadata"`
}

// upsertBatchSize keeps request bodies under the data-plane size limit.
const upsertBatchSize = 100

// Upsert writes records into the index in batches.
func (c *Client) Upsert(ctx context.Context, records []schema.VectorRecord) error {
	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}

		req := upsertRequest{Namespace: c.cfg.Namespace}
		for _, r := range records[start:end] {
			req.Vectors = append(req.Vectors, upsertVector{ID: r.ID, Values: r.Values, Metadata: r.Metadata})
		}

		if err := c.post(ctx, "/vectors/upsert", req, nil); err != nil {
			return err
		}
		c.logger.Info("pinecone upsert batch", "offset", start, "count", end-start)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return schema.NewServiceError(serviceName, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.IndexHost+path, bytes.NewReader(payload))
	if err != nil {
		return schema.NewServiceError(serviceName, err)
	}
	req.Header.Set("Api-Key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return schema.NewServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return schema.NewServiceError(serviceName,
			fmt.Errorf("pinecone %s returned %d: %s", path, resp.StatusCode, string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return schema.NewServiceError(serviceName, fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

var _ vectorstore.VectorStore = (*Client)(nil)
