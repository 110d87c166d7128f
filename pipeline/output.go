package pipeline

import (
	"context"
	"sort"

	"github.com/aqua777/go-ragpipe/schema"
)

// runOutput assembles the final payload: answer text, deduplicated source
// identifiers, and confidence. It is a pure formatting step with no external
// calls and always succeeds.
func (p *Pipeline) runOutput(ctx context.Context, state *schema.RequestState) StageResult {
	seen := make(map[string]struct{}, len(state.RelevantChunks))
	sources := make([]string, 0, len(state.RelevantChunks))
	for _, chunk := range state.RelevantChunks {
		if _, ok := seen[chunk.Source]; ok {
			continue
		}
		seen[chunk.Source] = struct{}{}
		sources = append(sources, chunk.Source)
	}
	// Set semantics: order carries no meaning, so keep it deterministic.
	sort.Strings(sources)

	state.FinalResponse = &schema.AnswerPayload{
		Answer:     state.GeneratedResponse,
		Sources:    sources,
		Confidence: confidenceValue(state),
	}

	return succeeded(schema.StatusCompleted)
}

func confidenceValue(state *schema.RequestState) float64 {
	if state.Confidence == nil {
		return 0.0
	}
	return *state.Confidence
}
