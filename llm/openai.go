package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aqua777/go-ragpipe/schema"
)

const serviceName = "completion"

// OpenAILLM generates completions via the OpenAI chat completions API.
type OpenAILLM struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAILLM creates a client from an API key and optional base URL.
// Empty values fall back to the OPENAI_API_KEY and OPENAI_URL environment
// variables; an empty model defaults to gpt-4o-mini.
func NewOpenAILLM(baseURL, model, apiKey string) *OpenAILLM {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_URL")
	}

	var client *openai.Client
	if baseURL != "" {
		config := openai.DefaultConfig(apiKey)
		config.BaseURL = baseURL
		client = openai.NewClientWithConfig(config)
	} else {
		client = openai.NewClient(apiKey)
	}

	return NewOpenAILLMWithClient(client, model)
}

// NewOpenAILLMWithClient creates a client from an existing OpenAI client.
func NewOpenAILLMWithClient(client *openai.Client, model string) *OpenAILLM {
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAILLM{
		client: client,
		model:  model,
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
}

// WithLogger replaces the default logger.
func (o *OpenAILLM) WithLogger(logger *slog.Logger) *OpenAILLM {
	o.logger = logger
	return o
}

// Model returns the configured model name.
func (o *OpenAILLM) Model() string {
	return o.model
}

func (o *OpenAILLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	o.logger.Info("completion requested",
		"model", o.model,
		"temperature", req.Temperature,
		"max_tokens", req.MaxTokens,
	)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       o.model,
			Messages:    messages,
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		},
	)
	if err != nil {
		o.logger.Error("completion failed", "error", err)
		return "", schema.NewServiceError(serviceName, err)
	}

	if len(resp.Choices) == 0 {
		return "", schema.NewServiceError(serviceName, fmt.Errorf("no choices returned"))
	}

	return resp.Choices[0].Message.Content, nil
}

var _ LLM = (*OpenAILLM)(nil)
