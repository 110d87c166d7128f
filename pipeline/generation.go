package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aqua777/go-ragpipe/llm"
	"github.com/aqua777/go-ragpipe/schema"
)

const systemPromptTemplate = `You are an assistant answering questions from an internal knowledge base.

Rules:
1. Answer using only the information in the provided context.
2. Combine information from multiple sources when relevant.
3. If the context does not contain enough information about some aspect, say so explicitly instead of guessing.
4. Prioritize the most relevant sources according to their relevance scores.
5. Be clear, specific and professional.
6. Respond in %s.`

// runGeneration synthesizes an answer grounded in the retrieved chunks and
// computes the calibrated confidence.
//
// With no chunks the stage short-circuits to a fixed "no information"
// response without calling the completion service. A completion failure
// degrades to a fixed apology; neither case fails the request.
func (p *Pipeline) runGeneration(ctx context.Context, state *schema.RequestState) StageResult {
	question := state.ValidatedQuestion

	if len(state.RelevantChunks) == 0 {
		p.logger.Warn("no relevant chunks, skipping synthesis")
		state.GeneratedResponse = noInformationResponse(question)
		state.Confidence = floatPtr(0.0)
		return succeeded(schema.StatusGenerationCompleted)
	}

	// Do not trust upstream order.
	sorted := make([]schema.RetrievedChunk, len(state.RelevantChunks))
	copy(sorted, state.RelevantChunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	scores := make([]float64, len(sorted))
	for i, c := range sorted {
		scores[i] = c.Score
	}
	conf := p.calibrator.Calibrate(scores)

	userPrompt := fmt.Sprintf(
		"Question: %s\n\nRelevant information (ordered by relevance):\n\n%s",
		question,
		p.buildContextBlock(sorted),
	)

	response, err := p.llm.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: fmt.Sprintf(systemPromptTemplate, p.answerLanguage),
		UserPrompt:   userPrompt,
		Temperature:  p.temperature,
		MaxTokens:    p.maxTokens,
	})
	if err != nil {
		state.GeneratedResponse = fallbackResponse(question)
		state.Confidence = floatPtr(0.0)
		return degraded(schema.StatusGenerationFailed, err)
	}

	state.GeneratedResponse = strings.TrimSpace(response)
	state.Confidence = floatPtr(conf)

	p.logger.Info("generation completed", "confidence", conf, "sources_used", len(sorted))
	return succeeded(schema.StatusGenerationCompleted)
}

// buildContextBlock renders the chunks as a human-readable context listing
// with rank and relevance score, bounded by the context token budget.
func (p *Pipeline) buildContextBlock(chunks []schema.RetrievedChunk) string {
	parts := make([]string, 0, len(chunks))
	used := 0

	for i, chunk := range chunks {
		part := fmt.Sprintf("Source %d (relevance: %.3f):\n%s", i+1, chunk.Score, chunk.Text)

		if p.tokenizer != nil && len(parts) > 0 {
			cost := len(p.tokenizer.Encode(part, nil, nil))
			if used+cost > p.contextTokenBudget {
				p.logger.Debug("context budget reached", "included", len(parts), "dropped", len(chunks)-i)
				break
			}
			used += cost
		} else if p.tokenizer != nil {
			used = len(p.tokenizer.Encode(part, nil, nil))
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, "\n\n")
}

func noInformationResponse(question string) string {
	return fmt.Sprintf("I could not find information about %q in the knowledge base.", question)
}

func fallbackResponse(question string) string {
	return fmt.Sprintf("Sorry, I ran into a problem while answering %q. Please try again.", question)
}

func floatPtr(v float64) *float64 {
	return &v
}
