package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aqua777/go-ragpipe/schema"
)

const serviceName = "embedding"

// OpenAIEmbedding generates embeddings via the OpenAI embeddings API.
type OpenAIEmbedding struct {
	client *openai.Client
	model  openai.EmbeddingModel
	logger *slog.Logger
}

// NewOpenAIEmbedding creates a client from an API key. An empty key falls
// back to the OPENAI_API_KEY environment variable.
func NewOpenAIEmbedding(apiKey string, modelName string) *OpenAIEmbedding {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return NewOpenAIEmbeddingWithClient(openai.NewClient(apiKey), modelName)
}

// NewOpenAIEmbeddingWithClient creates a client from an existing OpenAI
// client, allowing a shared client across embedding and completion.
func NewOpenAIEmbeddingWithClient(client *openai.Client, modelName string) *OpenAIEmbedding {
	model := openai.SmallEmbedding3
	if modelName != "" {
		model = openai.EmbeddingModel(modelName)
	}

	return &OpenAIEmbedding{
		client: client,
		model:  model,
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

// WithLogger replaces the default logger.
func (o *OpenAIEmbedding) WithLogger(logger *slog.Logger) *OpenAIEmbedding {
	o.logger = logger
	return o
}

func (o *OpenAIEmbedding) GetTextEmbedding(ctx context.Context, text string) ([]float64, error) {
	return o.getEmbedding(ctx, text, "text")
}

func (o *OpenAIEmbedding) GetQueryEmbedding(ctx context.Context, query string) ([]float64, error) {
	return o.getEmbedding(ctx, query, "query")
}

func (o *OpenAIEmbedding) getEmbedding(ctx context.Context, input string, typeLabel string) ([]float64, error) {
	resp, err := o.client.CreateEmbeddings(
		ctx,
		openai.EmbeddingRequest{
			Input: []string{input},
			Model: o.model,
		},
	)
	if err != nil {
		o.logger.Error("embedding request failed", "type", typeLabel, "model", o.model, "error", err)
		return nil, schema.NewServiceError(serviceName, err)
	}

	if len(resp.Data) == 0 {
		return nil, schema.NewServiceError(serviceName, fmt.Errorf("no embeddings returned"))
	}

	return toFloat64(resp.Data[0].Embedding), nil
}

// GetTextEmbeddingsBatch generates embeddings for multiple texts with one
// request per batch of batchSize inputs.
func (o *OpenAIEmbedding) GetTextEmbeddingsBatch(ctx context.Context, texts []string, callback ProgressCallback) ([][]float64, error) {
	const batchSize = 64

	embeddings := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := o.client.CreateEmbeddings(
			ctx,
			openai.EmbeddingRequest{
				Input: texts[start:end],
				Model: o.model,
			},
		)
		if err != nil {
			o.logger.Error("batch embedding request failed", "offset", start, "error", err)
			return nil, schema.NewServiceError(serviceName, err)
		}
		if len(resp.Data) != end-start {
			return nil, schema.NewServiceError(serviceName,
				fmt.Errorf("expected %d embeddings, got %d", end-start, len(resp.Data)))
		}

		for _, d := range resp.Data {
			embeddings = append(embeddings, toFloat64(d.Embedding))
		}
		if callback != nil {
			callback(end, len(texts))
		}
	}

	return embeddings, nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

var _ EmbeddingModelWithBatch = (*OpenAIEmbedding)(nil)
