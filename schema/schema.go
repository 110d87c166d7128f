// Package schema defines the data model shared by the answering pipeline and
// its collaborators: retrieved chunks, the per-request state record, the
// externally visible answer payload, and the vector store wire types.
package schema

// UnknownMetadata is the sentinel used when a stored chunk is missing
// source or section metadata.
const UnknownMetadata = "unknown"

// Status identifies how far a request has progressed through the pipeline,
// including the degraded variants.
type Status string

const (
	StatusStarted             Status = "started"
	StatusInputValidated      Status = "input_validated"
	StatusRetrievalCompleted  Status = "retrieval_completed"
	StatusRetrievalFailed     Status = "retrieval_failed"
	StatusGenerationCompleted Status = "generation_completed"
	StatusGenerationFailed    Status = "generation_failed"
	StatusCompleted           Status = "completed"
)

// RetrievedChunk is a passage returned by the vector store for a query.
// Score semantics are defined by the store: cosine similarity, or the
// re-ranked relevance score when the store applied a re-ranking pass.
type RetrievedChunk struct {
	ChunkID string  `json:"chunk_id"`
	Text    string  `json:"text"`
	Source  string  `json:"source"`
	Section string  `json:"section"`
	Score   float64 `json:"score"`
}

// AnswerPayload is the externally visible result of answering a question.
// Sources holds distinct document identifiers; order is not significant.
type AnswerPayload struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
}

// RequestState carries a single request through the pipeline stages. It is
// owned exclusively by one pipeline invocation and never shared between
// requests. Optional fields are pointers (or documented zero values) so each
// stage boundary can tell "absent" from "set to zero".
type RequestState struct {
	// Question is the raw input text.
	Question string `json:"question"`
	// ValidatedQuestion is set by the input stage: trimmed and at least
	// three characters. Empty means the input stage has not run yet.
	ValidatedQuestion string `json:"validated_question,omitempty"`
	// RelevantChunks are ordered by store-returned rank.
	RelevantChunks []RetrievedChunk `json:"relevant_chunks"`
	// GeneratedResponse is the synthesized answer text; empty until the
	// generation stage has run.
	GeneratedResponse string `json:"generated_response,omitempty"`
	// Confidence is nil until the generation stage has run; always in [0,1].
	Confidence *float64 `json:"confidence,omitempty"`
	// FinalResponse is nil until the output stage has run.
	FinalResponse *AnswerPayload `json:"final_response,omitempty"`
	// Status is the last stage-completion or failure tag.
	Status Status `json:"status"`
	// Err holds the diagnostic string of a caught stage failure.
	Err string `json:"error,omitempty"`
}

// NewRequestState creates the initial state for a question.
func NewRequestState(question string) *RequestState {
	return &RequestState{
		Question:       question,
		RelevantChunks: []RetrievedChunk{},
		Status:         StatusStarted,
	}
}

// ChunkMetadata is the metadata stored alongside each vector record. The
// field set matches what the ingestion job writes.
type ChunkMetadata struct {
	Text    string `json:"text"`
	Sources string `json:"sources"`
	Section string `json:"section"`
}

// VectorRecord is a persisted vector store entry: id, embedding, metadata.
type VectorRecord struct {
	ID       string        `json:"id"`
	Values   []float64     `json:"values"`
	Metadata ChunkMetadata `json:"metadata"`
}

// VectorMatch is one nearest-neighbor candidate returned by a store query.
type VectorMatch struct {
	ID       string        `json:"id"`
	Score    float64       `json:"score"`
	Metadata ChunkMetadata `json:"metadata"`
}

// Chunk converts a match into a RetrievedChunk, defaulting missing source
// and section metadata to the "unknown" sentinel.
func (m VectorMatch) Chunk() RetrievedChunk {
	source := m.Metadata.Sources
	if source == "" {
		source = UnknownMetadata
	}
	section := m.Metadata.Section
	if section == "" {
		section = UnknownMetadata
	}
	return RetrievedChunk{
		ChunkID: m.ID,
		Text:    m.Metadata.Text,
		Source:  source,
		Section: section,
		Score:   m.Score,
	}
}

// VectorStoreQuery describes a nearest-neighbor lookup. A non-empty QueryText
// asks the store to apply its server-side re-ranking pass over the candidate
// pool; re-ranked scores supersede raw cosine scores.
type VectorStoreQuery struct {
	Embedding []float64 `json:"embedding"`
	TopK      int       `json:"top_k"`
	QueryText string    `json:"query_text,omitempty"`
}
