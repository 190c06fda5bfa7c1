package claude

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
	name       = "claude"
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"

	defaultMaxTokens = 4096
)

// Provider implements port.CompletionProvider using the Anthropic Messages API.
type Provider struct {
	apiKey   string
	models   llm.TierModels
	endpoint string
	client   *http.Client
}

// NewProvider creates a Claude provider from a provider config.
func NewProvider(cfg *config.ProviderConfig) *Provider {
	endpoint := apiURL
	if cfg.BaseURL != "" {
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
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
		return nil, fmt.Errorf("claude provider requires an API key")
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
		models:   llm.TierModelsFromConfig(cfg, "claude-sonnet-4-20250514", "claude-3-5-haiku-20241022"),
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *Provider) Name() string { return name }

func (p *Provider) Complete(ctx context.Context, req port.CompletionRequest) (*port.CompletionResponse, error) {
	model := p.models.Model(req.Tier)
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := map[string]interface{}{
		"model":       model,
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
		"system":      "You are a privacy policy analyst. Respond with a single JSON object only.",
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": req.Prompt,
			},
		},
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
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
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

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte, model string) (*port.CompletionResponse, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &llm.MalformedResponseError{Err: fmt.Errorf("unmarshaling response: %w", err), Raw: string(body)}
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &llm.EmptyResponseError{Provider: name, Reason: "no text content"}
	}
	if resp.Model != "" {
		model = resp.Model
	}

	return &port.CompletionResponse{
		Text:         text.String(),
		Model:        model,
		Provider:     name,
		FinishReason: resp.StopReason,
	}, nil
}
