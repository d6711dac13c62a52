package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"

	"opsmith/pkg/configuration"
)

// Client is the narrow inference-backend collaborator: one prompt in, one
// completion out. Implementations may stream internally but return the full
// text.
type Client interface {
	Infer(ctx context.Context, prompt string, profile configuration.ModelProfile) (string, error)
}

// OllamaClient talks to a local ollama-compatible inference server.
type OllamaClient struct{}

// NewOllamaClient creates the default backend client.
func NewOllamaClient() *OllamaClient {
	return &OllamaClient{}
}

// Infer sends one chat request and accumulates the streamed response.
func (c *OllamaClient) Infer(ctx context.Context, prompt string, profile configuration.ModelProfile) (string, error) {
	client, err := c.apiClient(profile)
	if err != nil {
		return "", fmt.Errorf("could not create ollama client: %w", err)
	}

	// num_ctx sized to the prompt with headroom, floored at 4096.
	numCtx := EstimateTokens(prompt) + 1000
	if numCtx < 4096 {
		numCtx = 4096
	}

	req := &ollama.ChatRequest{
		Model: strings.TrimPrefix(profile.Model, "ollama:"),
		Messages: []ollama.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": profile.Temperature,
			"top_p":       1.0,
			"num_ctx":     numCtx,
			"num_predict": profile.MaxTokens,
		},
	}

	var out strings.Builder
	respFunc := func(res ollama.ChatResponse) error {
		out.WriteString(res.Message.Content)
		return nil
	}
	if err := client.Chat(ctx, req, respFunc); err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	return out.String(), nil
}

// apiClient builds a client for the profile's endpoint, defaulting to the
// OLLAMA_HOST environment.
func (c *OllamaClient) apiClient(profile configuration.ModelProfile) (*ollama.Client, error) {
	if profile.Endpoint == "" {
		return ollama.ClientFromEnvironment()
	}
	base, err := url.Parse(profile.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", profile.Endpoint, err)
	}
	return ollama.NewClient(base, http.DefaultClient), nil
}

// EstimateTokens approximates the token count of a text. Four characters per
// token is close enough for context sizing.
func EstimateTokens(text string) int {
	return len(text)/4 + 1
}
