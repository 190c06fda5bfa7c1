package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"privlens/internal/config"
	"privlens/internal/llm"
	"privlens/internal/port"
)

const (
	name   = "openai"
	apiURL = "https://api.openai.com/v1/chat/completions"
)

// Provider implements port.CompletionProvider using the OpenAI Chat
// Completions API or any compatible endpoint.
type Provider struct {
	apiKey   string
	models   llm.TierModels
	endpoint string
	client   *http.Client
}

// NewProvider creates an OpenAI provider from a provider config. A non-empty
// BaseURL points the provider at an OpenAI-compatible proxy.
func NewProvider(cfg *config.ProviderConfig) *Provider {
	endpoint := apiURL
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	}
	return newProvider(cfg, endpoint)
}

// NewProviderWithEndpoint creates a provider pointing at a custom API endpoint (for testing).
func NewProviderWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Provider {
	return newProvider(cfg, endpoint)
}

// Factory adapts NewProvider to llm.ProviderFactory.
func Factory(cfg *config.ProviderConfig) (port.CompletionProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai provider requires an API key")
	}
	return NewProvider(cfg), nil
}

func newProvider(cfg *config.ProviderConfig, endpoint string) *Provider {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Provider{
		apiKey:   cfg.APIKey,
		models:   llm.TierModelsFromConfig(cfg, "gpt-4o", "gpt-4o-mini"),
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *Provider) Name() string { return name }

func (p *Provider) Complete(ctx context.Context, req port.CompletionRequest) (*port.CompletionResponse, error) {
	model := p.models.Model(req.Tier)

	reqBody := map[string]interface{}{
		"model":       model,
		"temperature": req.Temperature,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": "You are a privacy policy analyst. Respond with a single JSON object only.",
			},
			{
				"role":    "user",
				"content": req.Prompt,
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}
	if req.MaxTokens > 0 {
		reqBody["max_tokens"] = req.MaxTokens
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, llm.StatusToError(name, resp, respBody)
	}

	return parseResponse(respBody, model)
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte, model string) (*port.CompletionResponse, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &llm.MalformedResponseError{Err: fmt.Errorf("unmarshaling response: %w", err), Raw: string(body)}
	}

	if len(resp.Choices) == 0 {
		return nil, &llm.EmptyResponseError{Provider: name, Reason: "no choices"}
	}
	if resp.Model != "" {
		model = resp.Model
	}

	return &port.CompletionResponse{
		Text:         resp.Choices[0].Message.Content,
		Model:        model,
		Provider:     name,
		FinishReason: resp.Choices[0].FinishReason,
	}, nil
}
