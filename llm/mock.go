package llm

import "context"

// MockLLM is a mock implementation of the LLM interface.
// It can be configured to return a specific response or error.
type MockLLM struct {
	// Response is the text response to return.
	Response string
	// Err is the error to return (if any).
	Err error
	// Calls counts Complete invocations.
	Calls int
	// LastRequest is the most recent request, for asserting prompt content.
	LastRequest CompletionRequest
}

// NewMockLLM creates a new MockLLM with a simple response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a new MockLLM that returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Err: err}
}

func (m *MockLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.Calls++
	m.LastRequest = req
	return m.Response, m.Err
}

var _ LLM = (*MockLLM)(nil)
