package embedding

import "context"

// MockEmbeddingModel is a mock implementation of the EmbeddingModel interface.
type MockEmbeddingModel struct {
	Embedding []float64
	Err       error
	// Calls counts embedding requests, for asserting call behavior.
	Calls int
}

func (m *MockEmbeddingModel) GetTextEmbedding(ctx context.Context, text string) ([]float64, error) {
	m.Calls++
	return m.Embedding, m.Err
}

func (m *MockEmbeddingModel) GetQueryEmbedding(ctx context.Context, query string) ([]float64, error) {
	m.Calls++
	return m.Embedding, m.Err
}

func (m *MockEmbeddingModel) GetTextEmbeddingsBatch(ctx context.Context, texts []string, callback ProgressCallback) ([][]float64, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = m.Embedding
	}
	if callback != nil {
		callback(len(texts), len(texts))
	}
	return out, nil
}

var _ EmbeddingModelWithBatch = (*MockEmbeddingModel)(nil)
