package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqua777/go-ragpipe/schema"
)

type stubAnswerer struct {
	payload  schema.AnswerPayload
	err      error
	question string
}

func (s *stubAnswerer) Answer(ctx context.Context, question string) (schema.AnswerPayload, error) {
	s.question = question
	return s.payload, s.err
}

func newTestServer(answerer Answerer) *Server {
	return New(answerer, Info{
		Environment:  "test",
		ChatModel:    "gpt-4o-mini",
		StoreBackend: "chromem",
	})
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&stubAnswerer{})

	resp, body := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.Equal(t, "gpt-4o-mini", body["chat_model"])
	assert.Equal(t, "chromem", body["store_backend"])
}

func TestAsk(t *testing.T) {
	stub := &stubAnswerer{
		payload: schema.AnswerPayload{
			Answer:     "Gophers live in burrows.",
			Sources:    []string{"burrows.pdf"},
			Confidence: 0.74,
		},
	}
	s := newTestServer(stub)

	resp, body := doJSON(t, s, http.MethodPost, "/ask", `{"question": "Where do gophers live?"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Where do gophers live?", stub.question)
	assert.Equal(t, "Gophers live in burrows.", body["answer"])
	assert.Equal(t, []any{"burrows.pdf"}, body["sources"])
	assert.InDelta(t, 0.74, body["confidence"].(float64), 1e-9)
}

func TestAskValidationError(t *testing.T) {
	stub := &stubAnswerer{err: schema.NewValidationError("question must be at least 3 characters long")}
	s := newTestServer(stub)

	resp, body := doJSON(t, s, http.MethodPost, "/ask", `{"question": "hi"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "at least 3 characters")
}

func TestAskMalformedBody(t *testing.T) {
	s := newTestServer(&stubAnswerer{})

	resp, body := doJSON(t, s, http.MethodPost, "/ask", `{"question": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request body", body["error"])
}

func TestAskInternalError(t *testing.T) {
	stub := &stubAnswerer{err: fmt.Errorf("wiring broke")}
	s := newTestServer(stub)

	resp, body := doJSON(t, s, http.MethodPost, "/ask", `{"question": "Where do gophers live?"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", body["error"])
}
