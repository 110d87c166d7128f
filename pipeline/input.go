package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/aqua777/go-ragpipe/schema"
)

// minQuestionLength is the minimum trimmed question length, in characters.
const minQuestionLength = 3

// runInput validates and normalizes the raw question. It is the hard
// precondition gate: every later stage assumes ValidatedQuestion is present.
func (p *Pipeline) runInput(state *schema.RequestState) error {
	trimmed := strings.TrimSpace(state.Question)
	if utf8.RuneCountInString(trimmed) < minQuestionLength {
		return schema.NewValidationError("question must be at least 3 characters long")
	}

	state.ValidatedQuestion = trimmed
	state.Status = schema.StatusInputValidated
	return nil
}
