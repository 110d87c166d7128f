package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestState(t *testing.T) {
	state := NewRequestState("what is the refund policy?")

	assert.Equal(t, "what is the refund policy?", state.Question)
	assert.Equal(t, StatusStarted, state.Status)
	assert.Empty(t, state.ValidatedQuestion)
	assert.NotNil(t, state.RelevantChunks)
	assert.Empty(t, state.RelevantChunks)
	assert.Nil(t, state.Confidence)
	assert.Nil(t, state.FinalResponse)
}

func TestVectorMatchChunk(t *testing.T) {
	tests := []struct {
		name        string
		match       VectorMatch
		wantSource  string
		wantSection string
	}{
		{
			name: "full metadata",
			match: VectorMatch{
				ID:       "faq-3",
				Score:    0.82,
				Metadata: ChunkMetadata{Text: "some text", Sources: "faq.json", Section: "billing"},
			},
			wantSource:  "faq.json",
			wantSection: "billing",
		},
		{
			name:        "missing source defaults to unknown",
			match:       VectorMatch{ID: "x", Metadata: ChunkMetadata{Text: "t", Section: "intro"}},
			wantSource:  UnknownMetadata,
			wantSection: "intro",
		},
		{
			name:        "missing section defaults to unknown",
			match:       VectorMatch{ID: "y", Metadata: ChunkMetadata{Text: "t", Sources: "doc"}},
			wantSource:  "doc",
			wantSection: UnknownMetadata,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := tt.match.Chunk()
			assert.Equal(t, tt.match.ID, chunk.ChunkID)
			assert.Equal(t, tt.match.Score, chunk.Score)
			assert.Equal(t, tt.wantSource, chunk.Source)
			assert.Equal(t, tt.wantSection, chunk.Section)
		})
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServiceError("embedding", cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "embedding service error")

	var svcErr *ServiceError
	require.ErrorAs(t, error(err), &svcErr)
	assert.Equal(t, "embedding", svcErr.Service)
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("question must be at least 3 characters long")
	assert.Contains(t, err.Error(), "at least 3 characters")
}
