// Package pipeline implements the retrieval-augmented answering pipeline: a
// four-stage state machine (input, retrieval, generation, output) over an
// evolving per-request state record.
//
// Only the input stage can fail a request. Every other stage absorbs its
// failures, degrades its output, and lets the machine continue, so the caller
// always gets an answer payload for a well-formed question.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkoukk/tiktoken-go"

	"github.com/aqua777/go-ragpipe/confidence"
	"github.com/aqua777/go-ragpipe/embedding"
	"github.com/aqua777/go-ragpipe/llm"
	"github.com/aqua777/go-ragpipe/schema"
	"github.com/aqua777/go-ragpipe/vectorstore"
)

// Defaults for the answering pipeline.
const (
	DefaultTopK               = 10
	DefaultTemperature        = 0.3
	DefaultMaxTokens          = 500
	DefaultAnswerLanguage     = "English"
	DefaultContextTokenBudget = 3000

	tokenEncoding = "cl100k_base"
)

// Pipeline sequences the four answering stages over injected service handles.
// A Pipeline is immutable after construction and safe for concurrent use;
// each request runs on its own RequestState.
type Pipeline struct {
	embedder   embedding.EmbeddingModel
	store      vectorstore.VectorStore
	llm        llm.LLM
	calibrator *confidence.Calibrator

	topK               int
	rerank             bool
	temperature        float32
	maxTokens          int
	answerLanguage     string
	contextTokenBudget int

	// tokenizer bounds the context block; nil disables the bound.
	tokenizer *tiktoken.Tiktoken
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTopK sets the number of nearest neighbors requested from the store.
func WithTopK(topK int) Option {
	return func(p *Pipeline) {
		if topK > 0 {
			p.topK = topK
		}
	}
}

// WithRerank toggles the store's server-side re-ranking pass.
func WithRerank(enabled bool) Option {
	return func(p *Pipeline) {
		p.rerank = enabled
	}
}

// WithTemperature sets the completion sampling temperature.
func WithTemperature(temperature float32) Option {
	return func(p *Pipeline) {
		p.temperature = temperature
	}
}

// WithMaxTokens sets the completion output-token budget.
func WithMaxTokens(maxTokens int) Option {
	return func(p *Pipeline) {
		if maxTokens > 0 {
			p.maxTokens = maxTokens
		}
	}
}

// WithAnswerLanguage sets the language the model is instructed to answer in.
func WithAnswerLanguage(language string) Option {
	return func(p *Pipeline) {
		if language != "" {
			p.answerLanguage = language
		}
	}
}

// WithCalibrator replaces the default confidence calibrator.
func WithCalibrator(c *confidence.Calibrator) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.calibrator = c
		}
	}
}

// WithContextTokenBudget bounds the grounding context block, in tokens.
func WithContextTokenBudget(budget int) Option {
	return func(p *Pipeline) {
		if budget > 0 {
			p.contextTokenBudget = budget
		}
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Pipeline from the injected collaborators.
func New(embedder embedding.EmbeddingModel, store vectorstore.VectorStore, model llm.LLM, opts ...Option) *Pipeline {
	p := &Pipeline{
		embedder:           embedder,
		store:              store,
		llm:                model,
		calibrator:         confidence.New(),
		topK:               DefaultTopK,
		rerank:             true,
		temperature:        DefaultTemperature,
		maxTokens:          DefaultMaxTokens,
		answerLanguage:     DefaultAnswerLanguage,
		contextTokenBudget: DefaultContextTokenBudget,
		logger:             slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}

	for _, opt := range opts {
		opt(p)
	}

	// Token counting is best effort; without an encoding the context block
	// is simply not bounded.
	if enc, err := tiktoken.GetEncoding(tokenEncoding); err == nil {
		p.tokenizer = enc
	} else {
		p.logger.Warn("token encoding unavailable, context budget disabled", "error", err)
	}

	return p
}

// Answer runs a question through the pipeline and returns the final payload.
// It returns a *schema.ValidationError for malformed input; for any
// downstream service failure it returns a degraded payload instead of an
// error.
func (p *Pipeline) Answer(ctx context.Context, question string) (schema.AnswerPayload, error) {
	state := schema.NewRequestState(question)

	if err := p.runInput(state); err != nil {
		return schema.AnswerPayload{}, err
	}
	p.logger.Info("question validated", "question", state.ValidatedQuestion)

	p.runStage(ctx, state, "retrieval", schema.StatusRetrievalFailed, p.runRetrieval)
	p.runStage(ctx, state, "generation", schema.StatusGenerationFailed, p.runGeneration)
	p.runStage(ctx, state, "output", schema.StatusCompleted, p.runOutput)

	// The output stage always sets the final response; this guard only
	// matters if it was degraded by a recovered panic.
	if state.FinalResponse == nil {
		state.FinalResponse = &schema.AnswerPayload{
			Answer:     state.GeneratedResponse,
			Sources:    []string{},
			Confidence: confidenceValue(state),
		}
	}

	p.logger.Info("request completed",
		"status", state.Status,
		"chunks", len(state.RelevantChunks),
		"confidence", state.FinalResponse.Confidence,
	)
	return *state.FinalResponse, nil
}

type stageFunc func(ctx context.Context, state *schema.RequestState) StageResult

// runStage executes one stage and records its result. Panics inside a stage
// are caught at the same boundary as service errors and degrade the stage
// rather than failing the request.
func (p *Pipeline) runStage(ctx context.Context, state *schema.RequestState, name string, failStatus schema.Status, fn stageFunc) {
	result := func() (res StageResult) {
		defer func() {
			if r := recover(); r != nil {
				res = degraded(failStatus, fmt.Errorf("internal error in %s stage: %v", name, r))
			}
		}()
		return fn(ctx, state)
	}()

	if result.Outcome == OutcomeDegraded {
		p.logger.Error("stage degraded", "stage", name, "error", result.Err)
	}
	result.apply(state)
}
